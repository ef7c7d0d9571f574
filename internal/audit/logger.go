// Package audit records best-effort audit events for the session lifecycle.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"session-auth-service/backend/internal/audit/domain"
	auditrepo "session-auth-service/backend/internal/audit/repository"
)

// Auth event actions recorded by the session manager.
const (
	ActionLogin        = "auth.login"
	ActionLoginFailure = "auth.login_failure"
	ActionRefresh      = "auth.refresh"
	ActionRevoke       = "auth.revoke"
	ActionRevokeAll    = "auth.revoke_all"
	ActionSweep        = "auth.sweep"
)

// AuditLogger writes a single audit event. LogEvent is best-effort: failures
// are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, metadata string)
}

// Logger implements AuditLogger using the audit repository.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns an AuditLogger that persists to repo. repo may be nil;
// then events are dropped.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userID, action, metadata string) {
	if l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s: %v", action, err)
	}
}
