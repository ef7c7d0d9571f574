package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"session-auth-service/backend/internal/security"
	"session-auth-service/backend/internal/session/domain"
)

// Postgres is a Store backed by the sessions table. Rows are keyed by the
// SHA-256 of the token, so raw tokens are never persisted; Get reconstructs
// the session with the raw token supplied by the caller. The dual-index
// invariant holds structurally (one table, indexed by user_id), and Replace
// runs delete+insert in one transaction to keep rotation atomic.
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns a session store that uses the given db for persistence.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Put inserts the session, failing with ErrTokenCollision if a row with the
// same token hash already exists.
func (r *Postgres) Put(ctx context.Context, s *domain.Session) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token_hash, user_id, issued_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (token_hash) DO NOTHING`,
		security.HashToken(s.Token), s.UserID, s.IssuedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("store: insert session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: insert session: %w", err)
	}
	if n == 0 {
		return ErrTokenCollision
	}
	return nil
}

// Get returns the session for token, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *Postgres) Get(ctx context.Context, token string) (*domain.Session, error) {
	s := domain.Session{Token: token}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, issued_at, expires_at FROM sessions WHERE token_hash = $1`,
		security.HashToken(token),
	).Scan(&s.UserID, &s.IssuedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: query session: %w", err)
	}
	return &s, nil
}

// Delete removes the session for token; no-op if absent.
func (r *Postgres) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token_hash = $1`, security.HashToken(token))
	if err != nil {
		return fmt.Errorf("store: delete session: %w", err)
	}
	return nil
}

// DeleteAllForUser removes every session for userID and returns the count.
func (r *Postgres) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("store: delete user sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: delete user sessions: %w", err)
	}
	return int(n), nil
}

// Replace deletes oldToken and inserts s in a single transaction. A
// concurrent Replace racing on the same old token sees zero rows deleted
// and fails with ErrTokenNotFound; the insert's collision check is the same
// as Put's.
func (r *Postgres) Replace(ctx context.Context, oldToken string, s *domain.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE token_hash = $1`, security.HashToken(oldToken))
	if err != nil {
		return fmt.Errorf("store: replace delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: replace delete: %w", err)
	}
	if n == 0 {
		return ErrTokenNotFound
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (token_hash, user_id, issued_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (token_hash) DO NOTHING`,
		security.HashToken(s.Token), s.UserID, s.IssuedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("store: replace insert: %w", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: replace insert: %w", err)
	}
	if n == 0 {
		return ErrTokenCollision
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit replace: %w", err)
	}
	return nil
}

// SweepExpired removes every session with expires_at <= now and returns the
// count removed.
func (r *Postgres) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("store: sweep expired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: sweep expired: %w", err)
	}
	return int(n), nil
}
