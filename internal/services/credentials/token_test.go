package credentials

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}

	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("expected non-matching password to fail")
	}
}

func TestTokenMintAndVerify(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("test-secret", "ryze-api", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	token, err := svc.Mint("jane@example.com", "employer")
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("expected email jane@example.com, got %s", claims.Email)
	}
	if claims.Role != "employer" {
		t.Errorf("expected role employer, got %s", claims.Role)
	}
	if time.Until(claims.ExpiresAt) <= 0 {
		t.Error("expected expiry in the future")
	}
}

func TestTokenVerifyRejections(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("test-secret", "ryze-api", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "garbage",
			token: func(t *testing.T) string {
				return "not-a-jwt"
			},
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				other, err := NewTokenService("other-secret", "ryze-api", time.Hour)
				if err != nil {
					t.Fatalf("NewTokenService returned error: %v", err)
				}
				token, err := other.Mint("jane@example.com", "employer")
				if err != nil {
					t.Fatalf("Mint returned error: %v", err)
				}
				return token
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				short, err := NewTokenService("test-secret", "ryze-api", time.Millisecond)
				if err != nil {
					t.Fatalf("NewTokenService returned error: %v", err)
				}
				token, err := short.Mint("jane@example.com", "employer")
				if err != nil {
					t.Fatalf("Mint returned error: %v", err)
				}
				time.Sleep(5 * time.Millisecond)
				return token
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := svc.Verify(tt.token(t)); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenService("", "ryze-api", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
