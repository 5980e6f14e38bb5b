package credentials

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// Claims carries the verified content of an access token.
type Claims struct {
	Email     string
	Role      string
	ExpiresAt time.Time
}

// TokenService mints and verifies HS256 access tokens. The token subject is
// the user's email.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a token service. A zero ttl falls back to
// DefaultTokenTTL.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Mint creates a signed access token for the given email and role.
func (s *TokenService) Mint(email, role string) (string, error) {
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Subject(email).
		Issuer(s.issuer).
		IssuedAt(now).
		Expiration(now.Add(s.ttl)).
		Claim("role", role).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), nil
}

// Verify validates the token signature and expiry and returns its claims.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	email := tok.Subject()
	if email == "" {
		return nil, fmt.Errorf("invalid token: missing subject")
	}

	claims := &Claims{
		Email:     email,
		ExpiresAt: tok.Expiration(),
	}
	if roleClaim, ok := tok.Get("role"); ok {
		if role, ok := roleClaim.(string); ok {
			claims.Role = role
		}
	}

	return claims, nil
}
