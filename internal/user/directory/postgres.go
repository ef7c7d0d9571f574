package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"session-auth-service/backend/internal/user/domain"
)

const userColumns = "id, username, email, display_name, password_digest, created_at"

// Postgres is a Directory backed by the users table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns a user directory that uses the given db for lookups.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// ByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *Postgres) ByID(ctx context.Context, id string) (*domain.User, error) {
	return r.queryOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

// ByUsername returns the user for username, or nil if not found.
func (r *Postgres) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.queryOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

// ByEmail returns the user for email, or nil if not found.
func (r *Postgres) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *Postgres) queryOne(ctx context.Context, query, arg string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.DisplayName,
		&u.PasswordDigest,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory: query user: %w", err)
	}
	return &u, nil
}
