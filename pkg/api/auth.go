// Package api defines the JSON request/response types of the auth HTTP API.
package api

import "time"

// LoginRequest carries the credentials for POST /api/v1/auth/login.
// Identifier may be a user ID, username, or email.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// User is the sanitized user representation returned by the API.
// It never includes the password digest.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// SessionResponse is returned by a successful login.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// RefreshResponse is returned by a successful token refresh.
type RefreshResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LogoutAllResponse reports how many sessions a logout_all revoked.
type LogoutAllResponse struct {
	RevokedCount int `json:"revoked_count"`
}

// ErrorResponse is the JSON body of any non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
