// Package zoom creates meetings through the Zoom server-to-server OAuth API.
// There is no official Go SDK, so this is a small hand-rolled client.
package zoom

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/ryzerecruiting/api/internal/models"
)

const (
	defaultAuthURL    = "https://zoom.us/oauth/token"
	defaultAPIBaseURL = "https://api.zoom.us/v2"

	meetingDurationMinutes = 30
	meetingTimezone        = "America/New_York"
)

// Client talks to the Zoom API using the account-credentials grant.
type Client struct {
	accountID    string
	clientID     string
	clientSecret string

	authURL    string
	apiBaseURL string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Zoom client. Configured reports false when any
// credential is missing.
func NewClient(accountID, clientID, clientSecret string) *Client {
	return &Client{
		accountID:    accountID,
		clientID:     clientID,
		clientSecret: clientSecret,
		authURL:      defaultAuthURL,
		apiBaseURL:   defaultAPIBaseURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether all Zoom credentials are present.
func (c *Client) Configured() bool {
	return c.accountID != "" && c.clientID != "" && c.clientSecret != ""
}

// token returns a cached access token, refreshing it when close to expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.accessToken, nil
	}

	params := url.Values{}
	params.Set("grant_type", "account_credentials")
	params.Set("account_id", c.accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build zoom token request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch zoom token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("zoom token endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode zoom token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("zoom token response missing access_token")
	}

	c.accessToken = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)

	return c.accessToken, nil
}

// CreateMeeting schedules a 30-minute meeting and returns its join URL and
// meeting ID.
func (c *Client) CreateMeeting(ctx context.Context, topic string, date models.Date, timeSlot string) (joinURL, meetingID string, err error) {
	if !c.Configured() {
		return "", "", fmt.Errorf("zoom credentials not configured")
	}

	startTime, err := slotTo24Hour(timeSlot)
	if err != nil {
		return "", "", err
	}

	accessToken, err := c.token(ctx)
	if err != nil {
		return "", "", err
	}

	payload := map[string]interface{}{
		"topic":      topic,
		"type":       2, // scheduled meeting
		"start_time": date.Format(models.DateLayout) + "T" + startTime,
		"duration":   meetingDurationMinutes,
		"timezone":   meetingTimezone,
		"settings": map[string]interface{}{
			"join_before_host": true,
			"waiting_room":     false,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode meeting payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBaseURL+"/users/me/meetings", bytes.NewReader(raw))
	if err != nil {
		return "", "", fmt.Errorf("failed to build meeting request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to create zoom meeting: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return "", "", fmt.Errorf("zoom meeting endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		ID      int64  `json:"id"`
		JoinURL string `json:"join_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", fmt.Errorf("failed to decode zoom meeting response: %w", err)
	}
	if body.JoinURL == "" {
		return "", "", fmt.Errorf("zoom meeting response missing join_url")
	}

	return body.JoinURL, strconv.FormatInt(body.ID, 10), nil
}

// slotTo24Hour converts a 12-hour slot like "9:00 AM" to "09:00:00".
func slotTo24Hour(slot string) (string, error) {
	t, err := time.Parse("3:04 PM", slot)
	if err != nil {
		return "", fmt.Errorf("invalid time slot %q: %w", slot, err)
	}
	return t.Format("15:04:05"), nil
}
