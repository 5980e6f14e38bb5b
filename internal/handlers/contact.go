package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"github.com/ryzerecruiting/api/internal/validation"
	"go.uber.org/zap"
)

// ContactHandler handles contact form submissions
type ContactHandler struct {
	contacts database.ContactStore
	logger   *zap.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts database.ContactStore, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	req.Message = validation.SanitizeText(req.Message)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	msg := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   strings.ToLower(req.Email),
		Message: req.Message,
	}

	if err := h.contacts.Create(r.Context(), msg); err != nil {
		h.logger.Error("failed_to_create_contact_message", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to send message")
		return
	}

	h.logger.Info("contact_message_received",
		zap.String("message_id", msg.ID.String()),
	)

	respondJSON(w, http.StatusCreated, msg)
}

// List handles GET /api/contact
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contacts.List(r.Context())
	if err != nil {
		h.logger.Error("failed_to_list_contact_messages", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to fetch messages")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}
