package store

import (
	"context"
	"sync"
	"time"

	"session-auth-service/backend/internal/session/domain"
)

// Memory is an in-memory Store. A single mutex guards both indices, so every
// operation is linearizable with respect to the others and the dual-index
// invariant (every token in the user index exists in the token map and vice
// versa) holds at all times.
type Memory struct {
	mu      sync.RWMutex
	byToken map[string]domain.Session
	byUser  map[string]map[string]struct{}
}

// NewMemory returns an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{
		byToken: make(map[string]domain.Session),
		byUser:  make(map[string]map[string]struct{}),
	}
}

// Put inserts the session into both indices, failing with ErrTokenCollision
// if the token is already present.
func (m *Memory) Put(ctx context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(s)
}

// Get returns a copy of the session for token, or nil if absent.
func (m *Memory) Get(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byToken[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Delete removes the session for token from both indices; no-op if absent.
func (m *Memory) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(token)
	return nil
}

// DeleteAllForUser removes every session for userID and returns the count.
func (m *Memory) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tokens := m.byUser[userID]
	count := len(tokens)
	for token := range tokens {
		delete(m.byToken, token)
	}
	delete(m.byUser, userID)
	return count, nil
}

// Replace atomically deletes oldToken and inserts s under the same lock, so
// no reader observes a state where neither token resolves.
func (m *Memory) Replace(ctx context.Context, oldToken string, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byToken[oldToken]; !ok {
		return ErrTokenNotFound
	}
	m.deleteLocked(oldToken)
	return m.putLocked(s)
}

// SweepExpired removes every session with ExpiresAt <= now and returns the
// count removed.
func (m *Memory) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for token, s := range m.byToken {
		if s.Expired(now) {
			m.deleteLocked(token)
			count++
		}
	}
	return count, nil
}

func (m *Memory) putLocked(s *domain.Session) error {
	if _, exists := m.byToken[s.Token]; exists {
		return ErrTokenCollision
	}
	m.byToken[s.Token] = *s
	tokens, ok := m.byUser[s.UserID]
	if !ok {
		tokens = make(map[string]struct{})
		m.byUser[s.UserID] = tokens
	}
	tokens[s.Token] = struct{}{}
	return nil
}

func (m *Memory) deleteLocked(token string) {
	s, ok := m.byToken[token]
	if !ok {
		return
	}
	delete(m.byToken, token)
	if tokens, ok := m.byUser[s.UserID]; ok {
		delete(tokens, token)
		if len(tokens) == 0 {
			delete(m.byUser, s.UserID)
		}
	}
}
