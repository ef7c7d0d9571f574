package domain

import "time"

// AuditLog represents one recorded auth event (login, refresh, revoke, sweep).
// Metadata is free-form detail such as a revoked-session count. Tokens and
// digests are never stored here.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Metadata  string
	CreatedAt time.Time
}
