package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ryzerecruiting/api/internal/models"
)

// BookingRepository handles booking database operations
type BookingRepository struct {
	db *DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, employer_id, employer_name, employer_email,
	company_name, website_url, date, time_slot, phone, notes, status,
	meeting_url, calendar_event_id, employer_profile_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID,
		&b.EmployerID,
		&b.EmployerName,
		&b.EmployerEmail,
		&b.CompanyName,
		&b.WebsiteURL,
		&b.Date,
		&b.TimeSlot,
		&b.Phone,
		&b.Notes,
		&b.Status,
		&b.MeetingURL,
		&b.CalendarEventID,
		&b.EmployerProfileID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Create persists a new booking in the pending state.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (id, employer_id, employer_name, employer_email,
			company_name, website_url, date, time_slot, phone, notes, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		b.ID,
		b.EmployerID,
		b.EmployerName,
		b.EmployerEmail,
		b.CompanyName,
		b.WebsiteURL,
		b.Date,
		b.TimeSlot,
		b.Phone,
		b.Notes,
		b.Status,
		now,
		now,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return b, nil
}

// List retrieves all bookings, newest first.
func (r *BookingRepository) List(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	return r.queryBookings(ctx, query)
}

// ListByEmployer retrieves the bookings owned by one employer, newest first.
func (r *BookingRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE employer_id = $1 ORDER BY created_at DESC`

	return r.queryBookings(ctx, query, employerID)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return bookings, nil
}

// TakenSlots returns the time slots held by pending or confirmed bookings on
// the given date. Cancelled bookings do not hold their slot.
func (r *BookingRepository) TakenSlots(ctx context.Context, date models.Date) ([]string, error) {
	query := `
		SELECT time_slot FROM bookings
		WHERE date = $1 AND status IN ($2, $3)
	`

	rows, err := r.db.QueryContext(ctx, query, date, models.BookingPending, models.BookingConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to query taken slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	slots := make([]string, 0)
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("failed to scan time slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time slots: %w", err)
	}

	return slots, nil
}

// Delete removes a booking by ID.
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}

	return nil
}

// Transition loads the booking under a row lock, runs fn against it, and
// persists the mutated status fields in the same transaction. The row lock
// serializes concurrent transitions on one booking so side effects fire at
// most once; if fn returns an error the transaction is rolled back and the
// booking is left untouched.
func (r *BookingRepository) Transition(ctx context.Context, id uuid.UUID, fn BookingTransitionFunc) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock booking: %w", err)
	}

	if err := fn(ctx, b, &txProfileStore{tx: tx}); err != nil {
		return nil, err
	}

	update := `
		UPDATE bookings
		SET status = $2, meeting_url = $3, calendar_event_id = $4,
			employer_profile_id = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at
	`
	err = tx.QueryRowContext(ctx, update,
		b.ID,
		b.Status,
		b.MeetingURL,
		b.CalendarEventID,
		b.EmployerProfileID,
		time.Now(),
	).Scan(&b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to persist booking transition: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking transition: %w", err)
	}

	return b, nil
}

// txProfileStore upserts employer profiles inside the transition transaction.
type txProfileStore struct {
	tx *sql.Tx
}

func (s *txProfileStore) UpsertByCompany(ctx context.Context, p *models.EmployerProfile) (*models.EmployerProfile, error) {
	return upsertProfileByCompany(ctx, s.tx, p)
}
