package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ryzerecruiting/api/internal/models"
)

// WaitlistRepository handles waitlist database operations
type WaitlistRepository struct {
	db *DB
}

// NewWaitlistRepository creates a new waitlist repository
func NewWaitlistRepository(db *DB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

// Create appends a waitlist entry. Email is stored lowercase; a duplicate
// returns ErrDuplicate and leaves the original row untouched.
func (r *WaitlistRepository) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist (id, email, source, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		entry.ID,
		strings.ToLower(entry.Email),
		entry.Source,
		time.Now(),
	).Scan(&entry.CreatedAt)

	if isUniqueViolation(err) {
		return fmt.Errorf("waitlist email %s: %w", entry.Email, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}
	entry.Email = strings.ToLower(entry.Email)

	return nil
}

// List retrieves all waitlist entries, newest first.
func (r *WaitlistRepository) List(ctx context.Context) ([]*models.WaitlistEntry, error) {
	query := `SELECT id, email, source, created_at FROM waitlist ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*models.WaitlistEntry, 0)
	for rows.Next() {
		entry := &models.WaitlistEntry{}
		if err := rows.Scan(&entry.ID, &entry.Email, &entry.Source, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate waitlist entries: %w", err)
	}

	return entries, nil
}
