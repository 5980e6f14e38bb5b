package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// signupTokenTTL bounds how long a provider profile waits for role selection.
const signupTokenTTL = 5 * time.Minute

// ErrSignupTokenNotFound is returned when a signup token is unknown, already
// used, or expired.
var ErrSignupTokenNotFound = errors.New("signup token not found or expired")

// SignupStore stashes provider profiles in Redis between the OAuth callback
// and the role-selection step. Redis keeps the flow correct when the API
// runs as more than one instance.
type SignupStore struct {
	rdb *redis.Client
}

// NewSignupStore creates a signup store backed by the given Redis client.
func NewSignupStore(rdb *redis.Client) *SignupStore {
	return &SignupStore{rdb: rdb}
}

func signupKey(token string) string {
	return "oauth_signup:" + token
}

// Put stashes the profile under a fresh opaque token with a 5-minute TTL.
func (s *SignupStore) Put(ctx context.Context, profile *Profile) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate signup token: %w", err)
	}
	token := hex.EncodeToString(buf)

	payload, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to encode signup profile: %w", err)
	}

	if err := s.rdb.Set(ctx, signupKey(token), payload, signupTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store signup profile: %w", err)
	}

	return token, nil
}

// Take atomically fetches and deletes the profile for the token, so a signup
// token can complete at most one signup.
func (s *SignupStore) Take(ctx context.Context, token string) (*Profile, error) {
	payload, err := s.rdb.GetDel(ctx, signupKey(token)).Result()
	if err == redis.Nil {
		return nil, ErrSignupTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signup profile: %w", err)
	}

	profile := &Profile{}
	if err := json.Unmarshal([]byte(payload), profile); err != nil {
		return nil, fmt.Errorf("failed to decode signup profile: %w", err)
	}

	return profile, nil
}
