package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// EmailSender sends transactional email through Resend.
type EmailSender struct {
	client *resend.Client
	from   string
}

// NewEmailSender creates an email sender. Returns nil when the API key is
// missing; the notify service skips email silently in that case.
func NewEmailSender(apiKey, from string) *EmailSender {
	if apiKey == "" || from == "" {
		return nil
	}
	return &EmailSender{client: resend.NewClient(apiKey), from: from}
}

// Send delivers one HTML email.
func (s *EmailSender) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
