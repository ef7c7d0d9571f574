// Package credential verifies login credentials against the user directory.
package credential

import (
	"context"
	"errors"

	"session-auth-service/backend/internal/security"
	"session-auth-service/backend/internal/user/directory"
	"session-auth-service/backend/internal/user/domain"
)

// Sentinel errors for credential verification. Callers that surface results
// externally should coalesce both into one generic failure so they do not
// leak whether the identifier or the password was wrong.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Verifier checks an identifier/password pair against stored credentials.
// It has no state of its own and performs no side effects.
type Verifier struct {
	dir    directory.Directory
	hasher *security.Hasher
}

// NewVerifier returns a Verifier over the given directory and password hasher.
func NewVerifier(dir directory.Directory, hasher *security.Hasher) *Verifier {
	return &Verifier{dir: dir, hasher: hasher}
}

// Verify resolves identifier by id, then username, then email (case-sensitive
// exact match, first match wins) and compares password against the stored
// digest. On success it returns the full user record; the caller is
// responsible for sanitizing before transmitting.
func (v *Verifier) Verify(ctx context.Context, identifier, password string) (*domain.User, error) {
	user, err := v.lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := v.hasher.Compare(user.PasswordDigest, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (v *Verifier) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := v.dir.ByID(ctx, identifier)
	if err != nil || user != nil {
		return user, err
	}
	user, err = v.dir.ByUsername(ctx, identifier)
	if err != nil || user != nil {
		return user, err
	}
	return v.dir.ByEmail(ctx, identifier)
}
