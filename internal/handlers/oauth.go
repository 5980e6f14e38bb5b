package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/ryzerecruiting/api/internal/services/oauth"
	"github.com/ryzerecruiting/api/internal/validation"
	"go.uber.org/zap"
)

// OAuthHandler handles the two-phase OAuth signup flow.
type OAuthHandler struct {
	svc         *oauth.Service
	frontendURL string
	logger      *zap.Logger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(svc *oauth.Service, frontendURL string, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{svc: svc, frontendURL: frontendURL, logger: logger}
}

// Start handles GET /api/auth/oauth/{provider} and redirects to the
// provider's authorization page.
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to start OAuth flow")
		return
	}
	state := hex.EncodeToString(buf)

	authURL, err := h.svc.AuthURL(provider, state)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Unknown OAuth provider")
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles GET /api/auth/oauth/{provider}/callback. Known users are
// redirected to the frontend with an access token; new users get a signup
// token for role selection.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, "missing_code")
		return
	}

	result, err := h.svc.HandleCallback(r.Context(), provider, code)
	if err != nil {
		if errors.Is(err, oauth.ErrUnknownProvider) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Unknown OAuth provider")
			return
		}
		h.logger.Warn("oauth_callback_failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		h.redirectError(w, r, "oauth_failed")
		return
	}

	if result.AccessToken != "" {
		h.redirect(w, r, "/auth/callback", url.Values{"token": {result.AccessToken}})
		return
	}
	h.redirect(w, r, "/auth/select-role", url.Values{"signup_token": {result.SignupToken}})
}

// CompleteSignupRequest finishes an OAuth signup with a chosen role.
type CompleteSignupRequest struct {
	SignupToken string `json:"signup_token" validate:"required"`
	Role        string `json:"role" validate:"required,signup_role"`
}

// CompleteSignup handles POST /api/auth/oauth/complete-signup
func (h *OAuthHandler) CompleteSignup(w http.ResponseWriter, r *http.Request) {
	var req CompleteSignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	token, user, err := h.svc.CompleteSignup(r.Context(), req.SignupToken, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, oauth.ErrSignupTokenNotFound):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid or expired signup token")
		case errors.Is(err, oauth.ErrInvalidRole):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Role must be employer or candidate")
		default:
			h.logger.Error("oauth_complete_signup_failed", zap.Error(err))
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to complete signup")
		}
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *OAuthHandler) redirect(w http.ResponseWriter, r *http.Request, path string, params url.Values) {
	http.Redirect(w, r, h.frontendURL+path+"?"+params.Encode(), http.StatusFound)
}

func (h *OAuthHandler) redirectError(w http.ResponseWriter, r *http.Request, reason string) {
	h.redirect(w, r, "/auth/callback", url.Values{"error": {reason}})
}
