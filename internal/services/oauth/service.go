package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"github.com/ryzerecruiting/api/internal/services/credentials"
	"go.uber.org/zap"
)

// Service errors mapped to HTTP status codes by the handlers.
var (
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrInvalidRole     = errors.New("role must be employer or candidate")
)

// AuthProvider is the provider surface the service needs; implemented by
// *Provider and by fakes in tests.
type AuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// SignupTokenStore stashes provider profiles pending role selection.
type SignupTokenStore interface {
	Put(ctx context.Context, profile *Profile) (string, error)
	Take(ctx context.Context, token string) (*Profile, error)
}

// Service runs the two-phase OAuth signup flow: callback resolves the
// provider identity to an existing user or stashes it behind a signup token;
// complete-signup turns a stashed profile plus a chosen role into a user.
type Service struct {
	users     database.UserStore
	tokens    *credentials.TokenService
	store     SignupTokenStore
	providers map[string]AuthProvider
	logger    *zap.Logger
}

// NewService creates the OAuth service.
func NewService(users database.UserStore, tokens *credentials.TokenService, store SignupTokenStore, providers map[string]AuthProvider, logger *zap.Logger) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		store:     store,
		providers: providers,
		logger:    logger,
	}
}

// AuthURL returns the provider authorization URL for the given state.
func (s *Service) AuthURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return p.AuthCodeURL(state), nil
}

// CallbackResult is the outcome of an OAuth callback: exactly one of
// AccessToken (known user, logged in) or SignupToken (new user, role
// selection pending) is set.
type CallbackResult struct {
	AccessToken string
	SignupToken string
	User        *models.User
}

// HandleCallback exchanges the authorization code and either logs the user
// in or stashes the profile behind a signup token.
func (s *Service) HandleCallback(ctx context.Context, provider, code string) (*CallbackResult, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	profile, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByOAuthIdentity(ctx, profile.Provider, profile.ProviderID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	if user == nil {
		// The provider identity is new; an account may still exist under
		// the same email (e.g. password signup first). Link onto it.
		existing, err := s.users.GetByEmail(ctx, strings.ToLower(profile.Email))
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			s.linkIdentity(existing, profile)
			if err := s.users.Update(ctx, existing); err != nil {
				return nil, err
			}
			user = existing
		}
	}

	if user != nil {
		token, err := s.tokens.Mint(user.Email, user.Role)
		if err != nil {
			return nil, err
		}
		s.logger.Info("oauth_login",
			zap.String("provider", provider),
			zap.String("user_id", user.ID.String()),
		)
		return &CallbackResult{AccessToken: token, User: user}, nil
	}

	signupToken, err := s.store.Put(ctx, profile)
	if err != nil {
		return nil, err
	}
	s.logger.Info("oauth_signup_pending", zap.String("provider", provider))

	return &CallbackResult{SignupToken: signupToken}, nil
}

// CompleteSignup consumes a signup token and creates (or links) the user
// with the chosen role, then mints an access token. An unknown or expired
// token creates nothing.
func (s *Service) CompleteSignup(ctx context.Context, signupToken, role string) (string, *models.User, error) {
	if role != models.RoleEmployer && role != models.RoleCandidate {
		return "", nil, ErrInvalidRole
	}

	profile, err := s.store.Take(ctx, signupToken)
	if err != nil {
		return "", nil, err
	}

	email := strings.ToLower(profile.Email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return "", nil, err
	}

	if user != nil {
		// Same email already registered; link the OAuth identity instead of
		// failing the signup. The existing role wins.
		s.linkIdentity(user, profile)
		if err := s.users.Update(ctx, user); err != nil {
			return "", nil, err
		}
	} else {
		user = &models.User{
			ID:              uuid.New(),
			Email:           email,
			Role:            role,
			OAuthProvider:   &profile.Provider,
			OAuthProviderID: &profile.ProviderID,
			IsActive:        true,
		}
		if profile.Name != "" {
			name := profile.Name
			user.FullName = &name
		}
		if err := s.users.Create(ctx, user); err != nil {
			return "", nil, err
		}
		s.logger.Info("oauth_signup_completed",
			zap.String("provider", profile.Provider),
			zap.String("user_id", user.ID.String()),
			zap.String("role", role),
		)
	}

	token, err := s.tokens.Mint(user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *Service) linkIdentity(user *models.User, profile *Profile) {
	provider := profile.Provider
	providerID := profile.ProviderID
	user.OAuthProvider = &provider
	user.OAuthProviderID = &providerID
	if user.FullName == nil && profile.Name != "" {
		name := profile.Name
		user.FullName = &name
	}
}
