package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Booking statuses. Pending is the entry state, cancelled is terminal.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// DateLayout is the wire and storage format for booking dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component. It marshals as
// "YYYY-MM-DD" and maps to a Postgres DATE column.
type Date struct {
	time.Time
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		d.Time = v
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Format(DateLayout), nil
}

// Booking is a scheduled discovery call with an employer. Employer name and
// email are denormalized at creation time so the record survives account
// changes. MeetingURL is only set by a successful confirmation;
// CalendarEventID is cleared on cancellation.
type Booking struct {
	ID                uuid.UUID  `json:"id"`
	EmployerID        uuid.UUID  `json:"employer_id"`
	EmployerName      string     `json:"employer_name"`
	EmployerEmail     string     `json:"employer_email"`
	CompanyName       *string    `json:"company_name,omitempty"`
	WebsiteURL        *string    `json:"website_url,omitempty"`
	Date              Date       `json:"date"`
	TimeSlot          string     `json:"time_slot"`
	Phone             *string    `json:"phone,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	Status            string     `json:"status"`
	MeetingURL        *string    `json:"meeting_url,omitempty"`
	CalendarEventID   *string    `json:"calendar_event_id,omitempty"`
	EmployerProfileID *uuid.UUID `json:"employer_profile_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
