// Package notify sends booking lifecycle email and SMS. Every dispatch is
// synchronous best-effort: failures are logged and swallowed so a dead mail
// provider can never fail a booking request.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/ryzerecruiting/api/internal/models"
	"github.com/ryzerecruiting/api/internal/services/brief"
	"go.uber.org/zap"
)

// Service fans booking events out to email and SMS.
type Service struct {
	email      *EmailSender
	sms        *SMSSender
	adminEmail string
	logger     *zap.Logger
}

// NewService creates the notify service. email and sms may be nil when the
// corresponding provider is not configured.
func NewService(email *EmailSender, sms *SMSSender, adminEmail string, logger *zap.Logger) *Service {
	return &Service{email: email, sms: sms, adminEmail: adminEmail, logger: logger}
}

// BookingReceived notifies the employer that the request landed and alerts
// the admin.
func (s *Service) BookingReceived(ctx context.Context, b *models.Booking) {
	subject := "We received your booking request"
	body := fmt.Sprintf(`
		<h2>Thanks, %s!</h2>
		<p>Your discovery call request for <strong>%s at %s</strong> is in.
		We will confirm your slot shortly and send a meeting link.</p>
	`, html.EscapeString(b.EmployerName), b.Date.Format("January 2, 2006"), html.EscapeString(b.TimeSlot))
	s.sendEmail(ctx, b.EmployerEmail, subject, body)

	if s.adminEmail != "" {
		company := "(no company)"
		if b.CompanyName != nil && *b.CompanyName != "" {
			company = *b.CompanyName
		}
		adminBody := fmt.Sprintf(`
			<h2>New booking request</h2>
			<p><strong>%s</strong> (%s) from %s requested %s at %s.</p>
		`, html.EscapeString(b.EmployerName), html.EscapeString(b.EmployerEmail),
			html.EscapeString(company), b.Date.Format("January 2, 2006"), html.EscapeString(b.TimeSlot))
		s.sendEmail(ctx, s.adminEmail, "New booking request", adminBody)
	}

	s.sendSMS(b, fmt.Sprintf("Thanks %s! We received your discovery call request for %s at %s. You'll get a confirmation soon.",
		b.EmployerName, b.Date.Format("Jan 2"), b.TimeSlot))
}

// BookingConfirmed sends the meeting link and, when available, the AI brief
// summary.
func (s *Service) BookingConfirmed(ctx context.Context, b *models.Booking, br brief.Brief) {
	meetingURL := ""
	if b.MeetingURL != nil {
		meetingURL = *b.MeetingURL
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `
		<h2>Your call is confirmed</h2>
		<p>Hi %s, your discovery call is confirmed for
		<strong>%s at %s</strong> (Eastern Time).</p>
	`, html.EscapeString(b.EmployerName), b.Date.Format("January 2, 2006"), html.EscapeString(b.TimeSlot))
	if meetingURL != "" {
		fmt.Fprintf(&sb, `<p><a href="%s">Join the Zoom meeting</a></p>`, meetingURL)
	}
	if !br.Empty() && br.CompanyOverview != "" {
		fmt.Fprintf(&sb, `<h3>What we already know</h3><p>%s</p>`, html.EscapeString(br.CompanyOverview))
	}
	s.sendEmail(ctx, b.EmployerEmail, "Your discovery call is confirmed", sb.String())

	sms := fmt.Sprintf("Your discovery call on %s at %s is confirmed.", b.Date.Format("Jan 2"), b.TimeSlot)
	if meetingURL != "" {
		sms += " Join: " + meetingURL
	}
	s.sendSMS(b, sms)
}

// BookingCancelled notifies the employer the call is off.
func (s *Service) BookingCancelled(ctx context.Context, b *models.Booking) {
	body := fmt.Sprintf(`
		<h2>Your call was cancelled</h2>
		<p>Hi %s, your discovery call scheduled for %s at %s has been
		cancelled. Feel free to book a new slot any time.</p>
	`, html.EscapeString(b.EmployerName), b.Date.Format("January 2, 2006"), html.EscapeString(b.TimeSlot))
	s.sendEmail(ctx, b.EmployerEmail, "Your discovery call was cancelled", body)

	s.sendSMS(b, fmt.Sprintf("Your discovery call on %s at %s was cancelled.", b.Date.Format("Jan 2"), b.TimeSlot))
}

func (s *Service) sendEmail(ctx context.Context, to, subject, htmlBody string) {
	if s.email == nil || to == "" {
		return
	}
	if err := s.email.Send(ctx, to, subject, htmlBody); err != nil {
		s.logger.Warn("notification_email_failed",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}

// sendSMS skips silently when the booking has no phone or Twilio is not
// configured.
func (s *Service) sendSMS(b *models.Booking, body string) {
	if s.sms == nil || b.Phone == nil || *b.Phone == "" {
		return
	}
	if err := s.sms.Send(*b.Phone, body); err != nil {
		s.logger.Warn("notification_sms_failed",
			zap.String("booking_id", b.ID.String()),
			zap.Error(err),
		)
	}
}
