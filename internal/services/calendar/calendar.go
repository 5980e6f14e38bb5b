// Package calendar manages Google Calendar events for confirmed bookings.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/ryzerecruiting/api/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	eventDuration = 30 * time.Minute
	eventTimezone = "America/New_York"
)

// Client inserts and deletes events on the recruiting calendar using a
// refresh-token credential.
type Client struct {
	svc        *gcal.Service
	calendarID string
	adminEmail string
}

// NewClient builds a calendar client from an offline refresh token. All
// arguments are required; main passes nil to the booking service when the
// integration is not configured.
func NewClient(ctx context.Context, clientID, clientSecret, refreshToken, calendarID, adminEmail string) (*Client, error) {
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("calendar credentials not configured")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarScope},
	}
	tokenSource := config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	svc, err := gcal.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Client{svc: svc, calendarID: calendarID, adminEmail: adminEmail}, nil
}

// CreateEvent inserts a 30-minute event with the admin and the employer as
// attendees and returns the event ID. Invitations go out immediately
// (sendUpdates=all).
func (c *Client) CreateEvent(ctx context.Context, companyName, employerName, employerEmail string, date models.Date, timeSlot, meetingURL string) (string, error) {
	start, err := slotStart(date, timeSlot)
	if err != nil {
		return "", err
	}
	end := start.Add(eventDuration)

	summary := "Discovery Call"
	if companyName != "" {
		summary = "Discovery Call - " + companyName
	}
	description := fmt.Sprintf("Discovery call with %s (%s).", employerName, employerEmail)
	if meetingURL != "" {
		description += "\n\nJoin Zoom: " + meetingURL
	}

	event := &gcal.Event{
		Summary:     summary,
		Description: description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: eventTimezone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: eventTimezone,
		},
		Attendees: []*gcal.EventAttendee{
			{Email: c.adminEmail},
			{Email: employerEmail},
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 60},
				{Method: "popup", Minutes: 10},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}

	return created.Id, nil
}

// DeleteEvent removes an event and notifies attendees.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.svc.Events.Delete(c.calendarID, eventID).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

// slotStart combines the booking date and 12-hour slot into a timestamp in
// the recruiting timezone.
func slotStart(date models.Date, timeSlot string) (time.Time, error) {
	loc, err := time.LoadLocation(eventTimezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load timezone: %w", err)
	}

	slot, err := time.Parse("3:04 PM", timeSlot)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time slot %q: %w", timeSlot, err)
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		slot.Hour(), slot.Minute(), 0, 0, loc,
	), nil
}
