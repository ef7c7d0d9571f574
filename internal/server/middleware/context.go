package middleware

import (
	"context"

	userdomain "session-auth-service/backend/internal/user/domain"
)

type contextKey string

// userKey holds the authenticated user's sanitized record.
const userKey contextKey = "auth.user"

// tokenKey holds the raw bearer token of the authenticated request.
const tokenKey contextKey = "auth.token"

// WithUser returns a context carrying the authenticated user and token.
func WithUser(ctx context.Context, user userdomain.Sanitized, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// GetUser returns the authenticated user from the context, if any.
func GetUser(ctx context.Context) (userdomain.Sanitized, bool) {
	user, ok := ctx.Value(userKey).(userdomain.Sanitized)
	return user, ok
}

// GetToken returns the raw bearer token from the context, if any.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
