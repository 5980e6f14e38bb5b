package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"github.com/ryzerecruiting/api/internal/request"
	"github.com/ryzerecruiting/api/internal/services/credentials"
	"github.com/ryzerecruiting/api/internal/validation"
	"go.uber.org/zap"
)

// AuthHandler handles registration, login, and the current-user endpoint.
type AuthHandler struct {
	users  database.UserStore
	tokens *credentials.TokenService
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users database.UserStore, tokens *credentials.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

// RegisterRequest represents a password registration request. Only
// self-assignable roles pass validation; admin is rejected here.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"required,signup_role"`
}

// LoginRequest represents a password login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the login/signup response payload.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.FullName = validation.SanitizeText(req.FullName)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	hash, err := credentials.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed_to_hash_password", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create account")
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: &hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if req.FullName != "" {
		user.FullName = &req.FullName
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			respondJSONError(w, http.StatusConflict, "Conflict", "An account with this email already exists")
			return
		}
		h.logger.Error("failed_to_create_user", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create account")
		return
	}

	h.logger.Info("user_registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)

	respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Incorrect email or password")
			return
		}
		h.logger.Error("failed_to_get_user_for_login", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Login failed")
		return
	}

	if user.PasswordHash == nil || !credentials.CheckPassword(req.Password, *user.PasswordHash) {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Incorrect email or password")
		return
	}

	if !user.IsActive {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Account is inactive")
		return
	}

	token, err := h.tokens.Mint(user.Email, user.Role)
	if err != nil {
		h.logger.Error("failed_to_mint_token", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
