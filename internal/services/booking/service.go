// Package booking orchestrates the booking lifecycle: pending bookings are
// created by employers, admins confirm or cancel them, and confirmation fans
// out to conferencing, calendar, AI enrichment, and notifications.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"github.com/ryzerecruiting/api/internal/services/brief"
	"go.uber.org/zap"
)

// Service errors mapped to HTTP status codes by the handlers.
var (
	// ErrInvalidStatus is returned for a status outside the lifecycle.
	ErrInvalidStatus = errors.New("invalid booking status")
	// ErrConferencingFailed is returned when the mandatory meeting creation
	// fails during confirmation. The booking is left unchanged.
	ErrConferencingFailed = errors.New("conferencing provider failed")
)

// Conferencer creates the meeting for a confirmed booking. Mandatory for
// confirmation.
type Conferencer interface {
	CreateMeeting(ctx context.Context, topic string, date models.Date, timeSlot string) (joinURL, meetingID string, err error)
}

// Calendar manages calendar events for bookings. Best-effort.
type Calendar interface {
	CreateEvent(ctx context.Context, companyName, employerName, employerEmail string, date models.Date, timeSlot, meetingURL string) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// BriefGenerator produces the pre-call brief from the employer's website.
// Best-effort; implementations never return an error.
type BriefGenerator interface {
	Generate(ctx context.Context, websiteURL string) brief.Brief
}

// Notifier delivers booking lifecycle notifications. Best-effort.
type Notifier interface {
	BookingReceived(ctx context.Context, b *models.Booking)
	BookingConfirmed(ctx context.Context, b *models.Booking, br brief.Brief)
	BookingCancelled(ctx context.Context, b *models.Booking)
}

// Service runs the booking lifecycle. Any collaborator except the store may
// be nil when the integration is not configured.
type Service struct {
	bookings     database.BookingStore
	conferencing Conferencer
	calendar     Calendar
	briefs       BriefGenerator
	notifier     Notifier
	logger       *zap.Logger
}

// NewService creates the booking service.
func NewService(bookings database.BookingStore, conferencing Conferencer, calendar Calendar, briefs BriefGenerator, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		bookings:     bookings,
		conferencing: conferencing,
		calendar:     calendar,
		briefs:       briefs,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreateParams carries the employer-supplied booking fields.
type CreateParams struct {
	CompanyName *string
	WebsiteURL  *string
	Date        models.Date
	TimeSlot    string
	Phone       *string
	Notes       *string
}

// Create persists a pending booking and sends best-effort receipt
// notifications. Employer name and email are denormalized from the account.
func (s *Service) Create(ctx context.Context, employer *models.User, p CreateParams) (*models.Booking, error) {
	name := employer.Email
	if employer.FullName != nil && *employer.FullName != "" {
		name = *employer.FullName
	}

	b := &models.Booking{
		ID:            uuid.New(),
		EmployerID:    employer.ID,
		EmployerName:  name,
		EmployerEmail: employer.Email,
		CompanyName:   p.CompanyName,
		WebsiteURL:    p.WebsiteURL,
		Date:          p.Date,
		TimeSlot:      p.TimeSlot,
		Phone:         p.Phone,
		Notes:         p.Notes,
		Status:        models.BookingPending,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking_created",
		zap.String("booking_id", b.ID.String()),
		zap.String("employer_id", b.EmployerID.String()),
		zap.String("date", b.Date.Format(models.DateLayout)),
		zap.String("time_slot", b.TimeSlot),
	)

	if s.notifier != nil {
		s.notifier.BookingReceived(ctx, b)
	}

	return b, nil
}

// Get returns one booking.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// List returns all bookings, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Booking, error) {
	return s.bookings.List(ctx)
}

// ListForEmployer returns the employer's own bookings, newest first.
func (s *Service) ListForEmployer(ctx context.Context, employerID uuid.UUID) ([]*models.Booking, error) {
	return s.bookings.ListByEmployer(ctx, employerID)
}

// Delete hard-deletes a booking with no side effects.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.bookings.Delete(ctx, id)
}

// Availability returns the slots held by pending or confirmed bookings on
// the given date.
func (s *Service) Availability(ctx context.Context, date models.Date) ([]string, error) {
	return s.bookings.TakenSlots(ctx, date)
}

// SetStatus transitions a booking. The whole transition runs inside one
// database transaction with the booking row locked, so concurrent requests
// for the same booking serialize and side effects fire at most once.
// Re-entering the current status persists but fires no side effects.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Booking, error) {
	switch status {
	case models.BookingPending, models.BookingConfirmed, models.BookingCancelled:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var (
		confirmBrief brief.Brief
		confirmed    bool
		cancelled    bool
	)

	updated, err := s.bookings.Transition(ctx, id, func(ctx context.Context, b *models.Booking, profiles database.ProfileUpserter) error {
		if b.Status == status {
			return nil
		}

		switch status {
		case models.BookingConfirmed:
			br, err := s.confirm(ctx, b, profiles)
			if err != nil {
				return err
			}
			confirmBrief = br
			confirmed = true
		case models.BookingCancelled:
			s.cancel(ctx, b)
			cancelled = true
		case models.BookingPending:
			b.Status = models.BookingPending
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if confirmed {
			s.notifier.BookingConfirmed(ctx, updated, confirmBrief)
		}
		if cancelled {
			s.notifier.BookingCancelled(ctx, updated)
		}
	}

	return updated, nil
}

// confirm runs the confirmation fan-out. Only the meeting is mandatory;
// calendar, brief, and profile enrichment degrade to log lines.
func (s *Service) confirm(ctx context.Context, b *models.Booking, profiles database.ProfileUpserter) (brief.Brief, error) {
	topic := "Discovery Call with " + b.EmployerName
	if b.CompanyName != nil && *b.CompanyName != "" {
		topic = "Discovery Call with " + *b.CompanyName
	}

	if s.conferencing == nil {
		return brief.Brief{}, fmt.Errorf("%w: not configured", ErrConferencingFailed)
	}
	joinURL, meetingID, err := s.conferencing.CreateMeeting(ctx, topic, b.Date, b.TimeSlot)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("%w: %s", ErrConferencingFailed, err)
	}
	b.MeetingURL = &joinURL
	b.Status = models.BookingConfirmed

	s.logger.Info("booking_meeting_created",
		zap.String("booking_id", b.ID.String()),
		zap.String("meeting_id", meetingID),
	)

	if s.calendar != nil {
		eventID, err := s.calendar.CreateEvent(ctx,
			stringValue(b.CompanyName), b.EmployerName, b.EmployerEmail,
			b.Date, b.TimeSlot, joinURL,
		)
		if err != nil {
			s.logger.Warn("booking_calendar_create_failed",
				zap.String("booking_id", b.ID.String()),
				zap.Error(err),
			)
		} else {
			b.CalendarEventID = &eventID
		}
	}

	var br brief.Brief
	if s.briefs != nil && b.WebsiteURL != nil && *b.WebsiteURL != "" {
		br = s.briefs.Generate(ctx, *b.WebsiteURL)
	}

	if b.CompanyName != nil && *b.CompanyName != "" {
		profile := profileFromBooking(b, br)
		saved, err := profiles.UpsertByCompany(ctx, profile)
		if err != nil {
			s.logger.Warn("booking_profile_upsert_failed",
				zap.String("booking_id", b.ID.String()),
				zap.Error(err),
			)
		} else {
			b.EmployerProfileID = &saved.ID
		}
	}

	return br, nil
}

// cancel deletes the linked calendar event best-effort and always clears the
// event reference so a cancelled booking never points at a live event.
func (s *Service) cancel(ctx context.Context, b *models.Booking) {
	if b.CalendarEventID != nil && *b.CalendarEventID != "" && s.calendar != nil {
		if err := s.calendar.DeleteEvent(ctx, *b.CalendarEventID); err != nil {
			s.logger.Warn("booking_calendar_delete_failed",
				zap.String("booking_id", b.ID.String()),
				zap.String("calendar_event_id", *b.CalendarEventID),
				zap.Error(err),
			)
		}
	}
	b.CalendarEventID = nil
	b.Status = models.BookingCancelled
}

// profileFromBooking merges booking contact data and the AI brief into an
// employer profile update.
func profileFromBooking(b *models.Booking, br brief.Brief) *models.EmployerProfile {
	employerID := b.EmployerID
	p := &models.EmployerProfile{
		UserID:              &employerID,
		CompanyName:         *b.CompanyName,
		WebsiteURL:          b.WebsiteURL,
		PrimaryContactEmail: &b.EmployerEmail,
		Phone:               b.Phone,
	}

	if br.Empty() {
		return p
	}

	now := time.Now()
	p.AIBriefUpdatedAt = &now
	if br.Industry != "" {
		p.AIIndustry = &br.Industry
	}
	if br.EstimatedSize != "" {
		p.AICompanySize = &br.EstimatedSize
	}
	if br.CompanyOverview != "" {
		p.AICompanyOverview = &br.CompanyOverview
	}
	p.AIHiringNeeds = br.HiringNeeds
	p.AITalkingPoints = br.TalkingPoints
	if br.RedFlags != "" {
		p.AIRedFlags = &br.RedFlags
	}
	if br.Raw != "" {
		p.AIBriefRaw = &br.Raw
	}

	return p
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
