package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"github.com/ryzerecruiting/api/internal/request"
	"github.com/ryzerecruiting/api/internal/services/booking"
	"github.com/ryzerecruiting/api/internal/validation"
	"go.uber.org/zap"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	svc    *booking.Service
	logger *zap.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(svc *booking.Service, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

// CreateBookingRequest represents a booking creation request
type CreateBookingRequest struct {
	CompanyName string `json:"company_name" validate:"omitempty,max=200"`
	WebsiteURL  string `json:"website_url" validate:"omitempty,max=500"`
	Date        string `json:"date" validate:"required,booking_date"`
	TimeSlot    string `json:"time_slot" validate:"required,time_slot"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

// SetStatusRequest represents a booking status change request
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

// AvailabilityResponse lists the slots already held on a date.
type AvailabilityResponse struct {
	Date        string   `json:"date"`
	BookedSlots []string `json:"booked_slots"`
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	var req CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.CompanyName = validation.SanitizeText(req.CompanyName)
	req.Notes = validation.SanitizeText(req.Notes)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", "Date must be in YYYY-MM-DD format")
		return
	}

	params := booking.CreateParams{
		Date:     date,
		TimeSlot: req.TimeSlot,
	}
	if req.CompanyName != "" {
		params.CompanyName = &req.CompanyName
	}
	if req.WebsiteURL != "" {
		params.WebsiteURL = &req.WebsiteURL
	}
	if req.Phone != "" {
		params.Phone = &req.Phone
	}
	if req.Notes != "" {
		params.Notes = &req.Notes
	}

	b, err := h.svc.Create(r.Context(), user, params)
	if err != nil {
		h.logger.Error("failed_to_create_booking", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create booking")
		return
	}

	respondJSON(w, http.StatusCreated, b)
}

// ListMy handles GET /api/bookings/my
func (h *BookingHandler) ListMy(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	bookings, err := h.svc.ListForEmployer(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed_to_list_bookings", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to fetch bookings")
		return
	}

	respondJSON(w, http.StatusOK, bookings)
}

// List handles GET /api/bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("failed_to_list_bookings", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to fetch bookings")
		return
	}

	respondJSON(w, http.StatusOK, bookings)
}

// Get handles GET /api/bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Booking not found")
			return
		}
		h.logger.Error("failed_to_get_booking", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to fetch booking")
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// SetStatus handles PATCH /api/bookings/{id}/status
func (h *BookingHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}

	var req SetStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	b, err := h.svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidStatus):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Status must be pending, confirmed, or cancelled")
		case errors.Is(err, database.ErrNotFound):
			respondJSONError(w, http.StatusNotFound, "Not Found", "Booking not found")
		case errors.Is(err, booking.ErrConferencingFailed):
			h.logger.Error("booking_confirmation_failed",
				zap.String("booking_id", id.String()),
				zap.Error(err),
			)
			respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Failed to create the meeting, booking was not confirmed")
		default:
			h.logger.Error("failed_to_update_booking_status", zap.Error(err))
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update booking")
		}
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/bookings/{id}
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Booking not found")
			return
		}
		h.logger.Error("failed_to_delete_booking", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete booking")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted"})
}

// Availability handles GET /api/bookings/availability/{date}. Public so the
// booking form can grey out taken slots before login.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["date"]
	date, err := models.ParseDate(raw)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", "Date must be in YYYY-MM-DD format")
		return
	}

	slots, err := h.svc.Availability(r.Context(), date)
	if err != nil {
		h.logger.Error("failed_to_get_availability", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to fetch availability")
		return
	}

	respondJSON(w, http.StatusOK, AvailabilityResponse{
		Date:        date.Format(models.DateLayout),
		BookedSlots: slots,
	})
}

// parseUUID extracts and validates a UUID path variable.
func parseUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
