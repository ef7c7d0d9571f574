package domain

import (
	"errors"
	"time"
)

// User is the canonical user record. PasswordDigest is opaque to everything
// except the credential verifier and must never cross the transport boundary;
// use Sanitized for anything a caller will see.
type User struct {
	ID             string
	Username       string
	Email          string
	DisplayName    string
	PasswordDigest string
	CreatedAt      time.Time
}

// Sanitized is the user shape safe to return to callers: the record minus
// the password digest.
type Sanitized struct {
	ID          string
	Username    string
	Email       string
	DisplayName string
}

// Sanitized returns the redacted view of the user.
func (u *User) Sanitized() Sanitized {
	return Sanitized{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordDigest == "" {
		return errors.New("password digest is required")
	}
	return nil
}
