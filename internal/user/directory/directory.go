// Package directory provides read-only lookups of user records by id,
// username, or email. The session core never mutates users; provisioning is
// ops tooling (cmd/seed) and writes to the backing store directly.
package directory

import (
	"context"

	"session-auth-service/backend/internal/user/domain"
)

// Directory resolves user records. Implementations return (nil, nil) when no
// user matches; errors are reserved for lookup failures such as database
// errors.
type Directory interface {
	ByID(ctx context.Context, id string) (*domain.User, error)
	ByUsername(ctx context.Context, username string) (*domain.User, error)
	ByEmail(ctx context.Context, email string) (*domain.User, error)
}
