package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/ryzerecruiting/api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		panic(fmt.Sprintf("failed to register booking_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("signup_role", validateSignupRole); err != nil {
		panic(fmt.Sprintf("failed to register signup_role validator: %v", err))
	}
	if err := Validate.RegisterValidation("relationship_status", validateRelationshipStatus); err != nil {
		panic(fmt.Sprintf("failed to register relationship_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("booking_date", validateBookingDate); err != nil {
		panic(fmt.Sprintf("failed to register booking_date validator: %v", err))
	}
	if err := Validate.RegisterValidation("time_slot", validateTimeSlot); err != nil {
		panic(fmt.Sprintf("failed to register time_slot validator: %v", err))
	}
}

// validateBookingStatus validates that a string is a valid booking status
func validateBookingStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.BookingPending, models.BookingConfirmed, models.BookingCancelled:
		return true
	default:
		return false
	}
}

// validateSignupRole validates that a string is a self-assignable role.
// Admin is granted operationally and is rejected here.
func validateSignupRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.RoleEmployer, models.RoleCandidate:
		return true
	default:
		return false
	}
}

// validateRelationshipStatus validates an employer profile relationship status
func validateRelationshipStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.RelationshipProspect, models.RelationshipActiveClient,
		models.RelationshipPlaced, models.RelationshipInactive, models.RelationshipNotAFit:
		return true
	default:
		return false
	}
}

// validateBookingDate validates a "YYYY-MM-DD" date string
func validateBookingDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

// validateTimeSlot validates a 12-hour slot string like "9:00 AM"
func validateTimeSlot(fl validator.FieldLevel) bool {
	_, err := time.Parse("3:04 PM", fl.Field().String())
	return err == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateBookingStatus validates a booking status string value
func ValidateBookingStatus(value string) error {
	switch value {
	case models.BookingPending, models.BookingConfirmed, models.BookingCancelled:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'pending', 'confirmed', or 'cancelled')", value)
	}
}

// ValidateRelationshipStatus validates a relationship status string value
func ValidateRelationshipStatus(value string) error {
	switch value {
	case models.RelationshipProspect, models.RelationshipActiveClient,
		models.RelationshipPlaced, models.RelationshipInactive, models.RelationshipNotAFit:
		return nil
	default:
		return fmt.Errorf("invalid relationship_status: %s", value)
	}
}
