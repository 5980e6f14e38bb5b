package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/request"
	"github.com/ryzerecruiting/api/internal/services/credentials"
	"go.uber.org/zap"
)

// Auth creates authentication middleware that validates bearer tokens and
// attaches the account to the request context.
func Auth(tokens *credentials.TokenService, users database.UserStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := r.Context()
			user, err := users.GetByEmail(ctx, claims.Email)
			if err != nil {
				if errors.Is(err, database.ErrNotFound) {
					respondError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}
				logger.Error("auth_user_lookup_failed", zap.Error(err))
				respondError(w, http.StatusInternalServerError, "Database error")
				return
			}

			if !user.IsActive {
				respondError(w, http.StatusForbidden, "Account is inactive")
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		})
	}
}

// RequireAdmin gates a route group to admin accounts. The configured
// operator email is treated as admin even before the flag is set on the row.
// Apply after Auth.
func RequireAdmin(adminEmail string) func(http.Handler) http.Handler {
	adminEmail = strings.ToLower(adminEmail)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := request.UserFromContext(r)
			if user == nil {
				respondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !user.IsAdmin && (adminEmail == "" || strings.ToLower(user.Email) != adminEmail) {
				respondError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
