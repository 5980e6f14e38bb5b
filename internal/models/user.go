package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles assignable through the public registration endpoints. Admin is
// granted operationally, never self-assigned.
const (
	RoleEmployer  = "employer"
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
)

// User represents an account. A user authenticates either with a password
// hash or with an OAuth identity (provider + provider id); email uniquely
// identifies one user either way.
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FullName        *string   `json:"full_name,omitempty"`
	PasswordHash    *string   `json:"-"`
	Role            string    `json:"role"`
	OAuthProvider   *string   `json:"oauth_provider,omitempty"`
	OAuthProviderID *string   `json:"-"`
	IsActive        bool      `json:"is_active"`
	IsAdmin         bool      `json:"is_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
