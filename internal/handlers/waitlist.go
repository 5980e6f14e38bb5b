package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"github.com/ryzerecruiting/api/internal/validation"
	"go.uber.org/zap"
)

// WaitlistHandler handles waitlist signups
type WaitlistHandler struct {
	waitlist database.WaitlistStore
	logger   *zap.Logger
}

// NewWaitlistHandler creates a new waitlist handler
func NewWaitlistHandler(waitlist database.WaitlistStore, logger *zap.Logger) *WaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist, logger: logger}
}

// JoinWaitlistRequest represents a waitlist signup request
type JoinWaitlistRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Source string `json:"source" validate:"omitempty,max=100"`
}

// Join handles POST /api/waitlist
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinWaitlistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Source = validation.SanitizeText(req.Source)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}
	if req.Source == "" {
		req.Source = "landing_page"
	}

	entry := &models.WaitlistEntry{
		ID:     uuid.New(),
		Email:  strings.ToLower(req.Email),
		Source: req.Source,
	}

	if err := h.waitlist.Create(r.Context(), entry); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			respondJSONError(w, http.StatusConflict, "Conflict", "This email is already on the waitlist.")
			return
		}
		h.logger.Error("failed_to_create_waitlist_entry", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to join waitlist")
		return
	}

	h.logger.Info("waitlist_joined",
		zap.String("source", entry.Source),
	)

	respondJSON(w, http.StatusCreated, entry)
}

// List handles GET /api/waitlist
func (h *WaitlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.waitlist.List(r.Context())
	if err != nil {
		h.logger.Error("failed_to_list_waitlist", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to fetch waitlist")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
