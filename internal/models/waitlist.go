package models

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry is an append-only signup. Email is stored lowercase and is
// unique; a duplicate signup never touches the original row.
type WaitlistEntry struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
