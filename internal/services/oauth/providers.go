package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/linkedin"
)

// Provider names accepted on the OAuth routes.
const (
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin"
)

// Profile is the identity returned by a provider after code exchange.
type Profile struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Picture    string `json:"picture,omitempty"`
}

// Provider wraps an oauth2 config plus the provider's userinfo endpoint.
type Provider struct {
	name        string
	config      *oauth2.Config
	userinfoURL string
	httpClient  *http.Client
}

// NewGoogleProvider configures the Google OAuth provider.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		name: ProviderGoogle,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewLinkedInProvider configures the LinkedIn OAuth provider (OpenID Connect
// userinfo).
func NewLinkedInProvider(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		name: ProviderLinkedIn,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     linkedin.Endpoint,
		},
		userinfoURL: "https://api.linkedin.com/v2/userinfo",
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL returns the provider authorization URL for the given state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for a token and fetches the user's
// profile from the provider's userinfo endpoint.
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange %s code: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s userinfo: %w", p.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s userinfo returned status %d", p.name, resp.StatusCode)
	}

	// Google's v2 userinfo uses "id", OIDC userinfo uses "sub".
	var raw struct {
		Sub     string `json:"sub"`
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s userinfo: %w", p.name, err)
	}

	providerID := raw.Sub
	if providerID == "" {
		providerID = raw.ID
	}
	if providerID == "" || raw.Email == "" {
		return nil, fmt.Errorf("%s userinfo missing id or email", p.name)
	}

	return &Profile{
		Provider:   p.name,
		ProviderID: providerID,
		Email:      raw.Email,
		Name:       raw.Name,
		Picture:    raw.Picture,
	}, nil
}
