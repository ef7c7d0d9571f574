package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"session-auth-service/backend/internal/session/manager"
	userdomain "session-auth-service/backend/internal/user/domain"
)

// SessionValidator validates a bearer token and resolves its user.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*userdomain.User, error)
}

// BearerToken extracts the token from the Authorization header.
// Returns an empty string if the header is missing or malformed.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Authenticate validates the request's bearer token and puts the sanitized
// user in the context. Requests with a missing, unknown, or expired token
// get 401.
func Authenticate(logger *slog.Logger, sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				logger.Warn("missing or malformed Authorization header")
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			user, err := sessions.Validate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, manager.ErrTokenNotFound),
					errors.Is(err, manager.ErrTokenExpired),
					errors.Is(err, manager.ErrUserNotFound):
					logger.Warn("token validation failed", "error", err)
					http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				default:
					logger.Error("token validation error", "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
				return
			}

			ctx := WithUser(r.Context(), user.Sanitized(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
