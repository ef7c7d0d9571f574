package domain

import "time"

// Session binds an opaque bearer token to a user for a bounded lifetime.
// The token is the session's identity; rotation replaces the whole record.
// Invariant: ExpiresAt > IssuedAt.
type Session struct {
	Token     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is expired at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
