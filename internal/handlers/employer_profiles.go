package handlers

import (
	"errors"
	"net/http"

	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/validation"
	"go.uber.org/zap"
)

// EmployerProfileHandler handles employer profile HTTP requests
type EmployerProfileHandler struct {
	profiles database.EmployerProfileStore
	logger   *zap.Logger
}

// NewEmployerProfileHandler creates a new employer profile handler
func NewEmployerProfileHandler(profiles database.EmployerProfileStore, logger *zap.Logger) *EmployerProfileHandler {
	return &EmployerProfileHandler{profiles: profiles, logger: logger}
}

// UpdateProfileRequest carries the recruiter-editable profile fields. Absent
// fields are left untouched.
type UpdateProfileRequest struct {
	RecruiterNotes     *string `json:"recruiter_notes" validate:"omitempty,max=10000"`
	RelationshipStatus *string `json:"relationship_status" validate:"omitempty,relationship_status"`
}

// List handles GET /api/employer-profiles
func (h *EmployerProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		h.logger.Error("failed_to_list_employer_profiles", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to fetch employer profiles")
		return
	}

	respondJSON(w, http.StatusOK, profiles)
}

// Get handles GET /api/employer-profiles/{id}
func (h *EmployerProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Employer profile not found")
			return
		}
		h.logger.Error("failed_to_get_employer_profile", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to fetch employer profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// Update handles PATCH /api/employer-profiles/{id}. Only the recruiter
// fields are writable through the API; AI fields are owned by the brief
// pipeline.
func (h *EmployerProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.RecruiterNotes != nil {
		sanitized := validation.SanitizeText(*req.RecruiterNotes)
		req.RecruiterNotes = &sanitized
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	profile, err := h.profiles.UpdateRecruiterFields(r.Context(), id, req.RecruiterNotes, req.RelationshipStatus)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Employer profile not found")
			return
		}
		h.logger.Error("failed_to_update_employer_profile", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update employer profile")
		return
	}

	h.logger.Info("employer_profile_updated",
		zap.String("profile_id", id.String()),
	)

	respondJSON(w, http.StatusOK, profile)
}
