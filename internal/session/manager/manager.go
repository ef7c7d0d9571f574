// Package manager orchestrates the session lifecycle: login, validation,
// rotation, and revocation over the token store and user directory.
package manager

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"session-auth-service/backend/internal/audit"
	"session-auth-service/backend/internal/credential"
	"session-auth-service/backend/internal/security"
	sessiondomain "session-auth-service/backend/internal/session/domain"
	"session-auth-service/backend/internal/session/store"
	"session-auth-service/backend/internal/user/directory"
	userdomain "session-auth-service/backend/internal/user/domain"
)

// DefaultSessionTTL matches the 30-day cookie lifetime the service's clients
// use by default.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Sentinel errors for the session manager; the transport maps them to HTTP
// status codes.
var (
	// ErrAuthenticationFailed covers both unknown identifiers and wrong
	// passwords so callers cannot tell which condition occurred.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrTokenNotFound means the token resolves to no session.
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenExpired means the session existed but its lifetime is over.
	// The entry is evicted as a side effect.
	ErrTokenExpired = errors.New("token expired")
	// ErrUserNotFound means the session is live but its user is gone
	// (deleted after issue); distinct from a bad token so callers can tell
	// a dangling session from an invalid one.
	ErrUserNotFound = errors.New("user not found")
)

// LoginResult holds the outcome of a successful Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      userdomain.Sanitized
}

// RefreshResult holds the outcome of a successful Refresh: the replacement
// token and its extended expiry.
type RefreshResult struct {
	Token     string
	ExpiresAt time.Time
	User      userdomain.Sanitized
}

// Manager implements login, validate, refresh, revoke, and revoke-all over
// an injected token store. The store is owned exclusively by the manager;
// nothing else mutates it.
type Manager struct {
	verifier *credential.Verifier
	dir      directory.Directory
	store    store.Store
	audit    audit.AuditLogger
	tracer   trace.Tracer
	ttl      time.Duration
	nowF     func() time.Time
}

// New returns a Manager with the given dependencies. ttl <= 0 falls back to
// DefaultSessionTTL. auditLog may be nil.
func New(verifier *credential.Verifier, dir directory.Directory, st store.Store, auditLog audit.AuditLogger, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		verifier: verifier,
		dir:      dir,
		store:    st,
		audit:    auditLog,
		tracer:   otel.Tracer("sessionauth.manager"),
		ttl:      ttl,
		nowF:     func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies the identifier/password pair, mints a fresh session token,
// and persists the session. Credential failures are coalesced into
// ErrAuthenticationFailed; a token collision from the store is surfaced
// unchanged since it signals a broken entropy source and must not be
// silently retried.
func (m *Manager) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	ctx, span := m.tracer.Start(ctx, "session.login")
	defer span.End()

	user, err := m.verifier.Verify(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, credential.ErrUserNotFound) || errors.Is(err, credential.ErrInvalidCredentials) {
			m.logEvent(ctx, "", audit.ActionLoginFailure, "")
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	token, err := security.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := m.nowF()
	sess := &sessiondomain.Session{
		Token:     token,
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	m.logEvent(ctx, user.ID, audit.ActionLogin, "")
	return &LoginResult{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		User:      user.Sanitized(),
	}, nil
}

// Validate resolves the token to its user. Expired sessions are evicted as a
// side effect, so a later Validate on the same token reports ErrTokenNotFound.
// Returns the full user record; transport callers sanitize before responding.
func (m *Manager) Validate(ctx context.Context, token string) (*userdomain.User, error) {
	ctx, span := m.tracer.Start(ctx, "session.validate")
	defer span.End()

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrTokenNotFound
	}
	if sess.Expired(m.nowF()) {
		_ = m.store.Delete(ctx, token)
		return nil, ErrTokenExpired
	}

	user, err := m.dir.ByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Refresh validates token, then atomically replaces it with a fresh one
// carrying an extended expiry. Two Refresh calls racing on the same token
// have exactly one winner; the loser fails with ErrTokenNotFound because the
// token it held was already consumed.
func (m *Manager) Refresh(ctx context.Context, token string) (*RefreshResult, error) {
	ctx, span := m.tracer.Start(ctx, "session.refresh")
	defer span.End()

	user, err := m.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	newToken, err := security.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := m.nowF()
	next := &sessiondomain.Session{
		Token:     newToken,
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Replace(ctx, token, next); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	m.logEvent(ctx, user.ID, audit.ActionRefresh, "")
	return &RefreshResult{
		Token:     newToken,
		ExpiresAt: next.ExpiresAt,
		User:      user.Sanitized(),
	}, nil
}

// Revoke deletes the session for token. Idempotent: revoking an unknown
// token is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	ctx, span := m.tracer.Start(ctx, "session.revoke")
	defer span.End()

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return err
	}
	if sess != nil {
		m.logEvent(ctx, sess.UserID, audit.ActionRevoke, "")
	}
	return nil
}

// RevokeAll deletes every session for userID (logout everywhere) and returns
// the count revoked.
func (m *Manager) RevokeAll(ctx context.Context, userID string) (int, error) {
	ctx, span := m.tracer.Start(ctx, "session.revoke_all")
	defer span.End()

	n, err := m.store.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	m.logEvent(ctx, userID, audit.ActionRevokeAll, strconv.Itoa(n))
	return n, nil
}

func (m *Manager) logEvent(ctx context.Context, userID, action, metadata string) {
	if m.audit == nil {
		return
	}
	m.audit.LogEvent(ctx, userID, action, metadata)
}
