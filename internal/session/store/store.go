// Package store defines the session token store: a mapping of opaque tokens
// to sessions with a user-id secondary index for revoke-all.
package store

import (
	"context"
	"errors"
	"time"

	"session-auth-service/backend/internal/session/domain"
)

var (
	// ErrTokenCollision signals a freshly minted token already exists in the
	// store. It should never occur with a healthy entropy source; it is fatal
	// and must not be retried silently.
	ErrTokenCollision = errors.New("token collision")

	// ErrTokenNotFound is returned by Replace when the old token is no longer
	// present, e.g. because a concurrent rotation already consumed it.
	ErrTokenNotFound = errors.New("token not found")
)

// Store persists sessions keyed by token. Implementations must keep the
// token mapping and the per-user index consistent under concurrent access,
// and must make Replace atomic: no interleaving may observe a state where
// neither the old nor the new token resolves.
type Store interface {
	// Put inserts the session, failing with ErrTokenCollision if the token
	// already exists.
	Put(ctx context.Context, s *domain.Session) error
	// Get returns the session for token, or nil if absent. No side effects.
	Get(ctx context.Context, token string) (*domain.Session, error)
	// Delete removes the session for token; no-op if absent.
	Delete(ctx context.Context, token string) error
	// DeleteAllForUser removes every session for userID and returns the count.
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
	// Replace atomically deletes oldToken and inserts s. Exactly one of two
	// concurrent Replace calls for the same oldToken succeeds; the other
	// fails with ErrTokenNotFound.
	Replace(ctx context.Context, oldToken string, s *domain.Session) error
	// SweepExpired removes every session with ExpiresAt <= now and returns
	// the count removed. Safe to call concurrently with any other operation.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
