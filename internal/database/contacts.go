package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ryzerecruiting/api/internal/models"
)

// ContactRepository handles contact form database operations
type ContactRepository struct {
	db *DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create persists a contact form submission.
func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contacts (id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		msg.ID,
		msg.Name,
		msg.Email,
		msg.Message,
		time.Now(),
	).Scan(&msg.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	return nil
}

// List retrieves all contact messages, newest first.
func (r *ContactRepository) List(ctx context.Context) ([]*models.ContactMessage, error) {
	query := `SELECT id, name, email, message, created_at FROM contacts ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	messages := make([]*models.ContactMessage, 0)
	for rows.Next() {
		msg := &models.ContactMessage{}
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact messages: %w", err)
	}

	return messages, nil
}
