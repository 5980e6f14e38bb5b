package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/ryzerecruiting/api/internal/models"
)

// BookingTransitionFunc mutates a booking inside the transition transaction.
// The profile store it receives runs against the same transaction.
type BookingTransitionFunc func(ctx context.Context, booking *models.Booking, profiles ProfileUpserter) error

// ProfileUpserter inserts or merges an employer profile keyed by company name.
type ProfileUpserter interface {
	UpsertByCompany(ctx context.Context, p *models.EmployerProfile) (*models.EmployerProfile, error)
}

// UserStore defines the user repository operations consumed by services.
// The interfaces in this file enable hand-written fakes in tests.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByOAuthIdentity(ctx context.Context, provider, providerID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// BookingStore defines the booking repository operations consumed by the
// lifecycle service.
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context) ([]*models.Booking, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]*models.Booking, error)
	TakenSlots(ctx context.Context, date models.Date) ([]string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Transition(ctx context.Context, id uuid.UUID, fn BookingTransitionFunc) (*models.Booking, error)
}

// EmployerProfileStore defines the profile repository operations consumed by
// handlers.
type EmployerProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.EmployerProfile, error)
	List(ctx context.Context) ([]*models.EmployerProfile, error)
	UpdateRecruiterFields(ctx context.Context, id uuid.UUID, notes *string, relationshipStatus *string) (*models.EmployerProfile, error)
	UpsertByCompany(ctx context.Context, p *models.EmployerProfile) (*models.EmployerProfile, error)
}

// WaitlistStore defines the waitlist repository operations consumed by
// handlers.
type WaitlistStore interface {
	Create(ctx context.Context, entry *models.WaitlistEntry) error
	List(ctx context.Context) ([]*models.WaitlistEntry, error)
}

// ContactStore defines the contact repository operations consumed by
// handlers.
type ContactStore interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	List(ctx context.Context) ([]*models.ContactMessage, error)
}

// Ensure concrete types implement the interfaces
var (
	_ UserStore            = (*UserRepository)(nil)
	_ BookingStore         = (*BookingRepository)(nil)
	_ EmployerProfileStore = (*EmployerProfileRepository)(nil)
	_ ProfileUpserter      = (*EmployerProfileRepository)(nil)
	_ ProfileUpserter      = (*txProfileStore)(nil)
	_ WaitlistStore        = (*WaitlistRepository)(nil)
	_ ContactStore         = (*ContactRepository)(nil)
)
