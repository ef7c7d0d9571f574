package directory

import (
	"context"

	"session-auth-service/backend/internal/user/domain"
)

// Memory is an in-memory Directory built once from a fixed set of users.
// It is immutable after construction, so lookups need no locking.
type Memory struct {
	byID       map[string]*domain.User
	byUsername map[string]*domain.User
	byEmail    map[string]*domain.User
}

// NewMemory returns a Memory directory holding copies of the given users.
func NewMemory(users []domain.User) *Memory {
	m := &Memory{
		byID:       make(map[string]*domain.User, len(users)),
		byUsername: make(map[string]*domain.User, len(users)),
		byEmail:    make(map[string]*domain.User, len(users)),
	}
	for i := range users {
		u := users[i]
		m.byID[u.ID] = &u
		m.byUsername[u.Username] = &u
		m.byEmail[u.Email] = &u
	}
	return m
}

// ByID returns the user with the given id, or nil if absent.
func (m *Memory) ByID(ctx context.Context, id string) (*domain.User, error) {
	return copyUser(m.byID[id]), nil
}

// ByUsername returns the user with the given username, or nil if absent.
// Matching is case-sensitive and exact.
func (m *Memory) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	return copyUser(m.byUsername[username]), nil
}

// ByEmail returns the user with the given email, or nil if absent.
// Matching is case-sensitive and exact.
func (m *Memory) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return copyUser(m.byEmail[email]), nil
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
