package manager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"session-auth-service/backend/internal/credential"
	"session-auth-service/backend/internal/security"
	sessiondomain "session-auth-service/backend/internal/session/domain"
	"session-auth-service/backend/internal/session/store"
	userdomain "session-auth-service/backend/internal/user/domain"
)

// memDirectory is a mutable directory fake so tests can delete users from
// under live sessions.
type memDirectory struct {
	mu    sync.Mutex
	users map[string]*userdomain.User
}

func newMemDirectory(users ...userdomain.User) *memDirectory {
	d := &memDirectory{users: make(map[string]*userdomain.User)}
	for i := range users {
		u := users[i]
		d.users[u.ID] = &u
	}
	return d
}

func (d *memDirectory) ByID(ctx context.Context, id string) (*userdomain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.users[id], nil
}

func (d *memDirectory) ByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (d *memDirectory) ByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (d *memDirectory) remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.users, id)
}

func newTestManager(t *testing.T) (*Manager, *memDirectory) {
	t.Helper()
	hasher := security.NewHasher(bcrypt.MinCost)
	digest, err := hasher.Hash([]byte("TestPassword4$"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	dir := newMemDirectory(userdomain.User{
		ID:             "u1",
		Username:       "joeblow",
		Email:          "joeblow@example.com",
		DisplayName:    "Joe Blow",
		PasswordDigest: digest,
	})
	verifier := credential.NewVerifier(dir, hasher)
	m := New(verifier, dir, store.NewMemory(), nil, time.Hour)
	return m, dir
}

func TestManager_LoginThenValidate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("token should have nonzero length")
	}
	if !res.ExpiresAt.After(time.Now()) {
		t.Error("ExpiresAt should be in the future")
	}
	if res.User.ID != "u1" || res.User.Username != "joeblow" {
		t.Errorf("sanitized user = %+v, want joeblow", res.User)
	}

	user, err := m.Validate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("Validate user.ID = %q, want u1", user.ID)
	}
}

func TestManager_LoginFailuresAreIndistinguishable(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, wrongPass := m.Login(ctx, "joeblow", "wrong")
	_, unknownUser := m.Login(ctx, "nobody", "TestPassword4$")

	if !errors.Is(wrongPass, ErrAuthenticationFailed) {
		t.Errorf("wrong password: got %v, want ErrAuthenticationFailed", wrongPass)
	}
	if !errors.Is(unknownUser, ErrAuthenticationFailed) {
		t.Errorf("unknown user: got %v, want ErrAuthenticationFailed", unknownUser)
	}
}

func TestManager_ValidateUnknownToken(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Validate(context.Background(), "no-such-token")
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Validate unknown token: got %v, want ErrTokenNotFound", err)
	}
}

func TestManager_ValidateExpiredTokenEvicts(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Move the manager's clock past the session's expiry.
	m.nowF = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }

	_, err = m.Validate(ctx, res.Token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Validate expired: got %v, want ErrTokenExpired", err)
	}

	// Eviction happened: the same token is now simply unknown.
	_, err = m.Validate(ctx, res.Token)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Validate after eviction: got %v, want ErrTokenNotFound", err)
	}
}

func TestManager_ValidateExpiryBoundary(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// now == expiresAt counts as expired.
	m.nowF = func() time.Time { return res.ExpiresAt }
	if _, err := m.Validate(ctx, res.Token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate at expiry instant: got %v, want ErrTokenExpired", err)
	}
}

func TestManager_RefreshConsumesOldToken(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	ref, err := m.Refresh(ctx, res.Token)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if ref.Token == res.Token {
		t.Error("Refresh should mint a different token")
	}

	if _, err := m.Validate(ctx, res.Token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Validate consumed token: got %v, want ErrTokenNotFound", err)
	}
	user, err := m.Validate(ctx, ref.Token)
	if err != nil {
		t.Fatalf("Validate new token: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("Validate new token user.ID = %q, want u1", user.ID)
	}
}

func TestManager_RefreshExtendsExpiry(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	base := time.Now().UTC()
	m.nowF = func() time.Time { return base }

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	m.nowF = func() time.Time { return base.Add(30 * time.Minute) }
	ref, err := m.Refresh(ctx, res.Token)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !ref.ExpiresAt.After(res.ExpiresAt) {
		t.Errorf("refreshed ExpiresAt = %v, want after %v", ref.ExpiresAt, res.ExpiresAt)
	}
}

func TestManager_RefreshExpiredToken(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	m.nowF = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	if _, err := m.Refresh(ctx, res.Token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Refresh expired token: got %v, want ErrTokenExpired", err)
	}
}

func TestManager_RevokeIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := m.Revoke(ctx, res.Token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := m.Revoke(ctx, res.Token); err != nil {
		t.Fatalf("Revoke again: %v", err)
	}
	if _, err := m.Validate(ctx, res.Token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Validate revoked token: got %v, want ErrTokenNotFound", err)
	}
}

func TestManager_RevokeAll(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	var tokens []string
	for i := 0; i < 3; i++ {
		res, err := m.Login(ctx, "joeblow", "TestPassword4$")
		if err != nil {
			t.Fatalf("Login %d: %v", i, err)
		}
		tokens = append(tokens, res.Token)
	}

	n, err := m.RevokeAll(ctx, "u1")
	if err != nil {
		t.Fatalf("RevokeAll: %v", err)
	}
	if n != 3 {
		t.Errorf("RevokeAll = %d, want 3", n)
	}
	for _, token := range tokens {
		if _, err := m.Validate(ctx, token); !errors.Is(err, ErrTokenNotFound) {
			t.Errorf("Validate after RevokeAll: got %v, want ErrTokenNotFound", err)
		}
	}
}

func TestManager_DanglingSessionUserDeleted(t *testing.T) {
	m, dir := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	dir.remove("u1")

	_, err = m.Validate(ctx, res.Token)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Validate dangling session: got %v, want ErrUserNotFound", err)
	}
}

func TestManager_ConcurrentRefreshSingleWinner(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	results := make([]*RefreshResult, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Refresh(ctx, res.Token)
		}(i)
	}
	wg.Wait()

	winners := 0
	var winner *RefreshResult
	for i := 0; i < n; i++ {
		switch {
		case errs[i] == nil:
			winners++
			winner = results[i]
		case errors.Is(errs[i], ErrTokenNotFound):
		default:
			t.Errorf("unexpected Refresh error: %v", errs[i])
		}
	}
	if winners != 1 {
		t.Fatalf("concurrent Refresh winners = %d, want exactly 1", winners)
	}

	// Only the winner's token survives the race.
	if _, err := m.Validate(ctx, res.Token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("initial token should be consumed, got %v", err)
	}
	if _, err := m.Validate(ctx, winner.Token); err != nil {
		t.Errorf("winner token should validate, got %v", err)
	}
	n2, _ := m.RevokeAll(ctx, "u1")
	if n2 != 1 {
		t.Errorf("live sessions after race = %d, want 1", n2)
	}
}

func TestManager_SweepRemovesExpiredSessions(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "joeblow", "TestPassword4$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	m.nowF = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	m.sweepOnce(ctx)

	m.nowF = func() time.Time { return time.Now().UTC() }
	if _, err := m.Validate(ctx, res.Token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Validate after sweep: got %v, want ErrTokenNotFound", err)
	}
}

func TestManager_RunSweeperStopsOnCancel(t *testing.T) {
	m, _ := newTestManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunSweeper did not stop after context cancel")
	}
}

// collidingStore wraps a Store and forces Put to report a collision, to
// verify the manager surfaces it rather than retrying.
type collidingStore struct {
	store.Store
}

func (s *collidingStore) Put(ctx context.Context, sess *sessiondomain.Session) error {
	return store.ErrTokenCollision
}

func TestManager_TokenCollisionSurfaced(t *testing.T) {
	m, _ := newTestManager(t)
	m.store = &collidingStore{Store: store.NewMemory()}

	_, err := m.Login(context.Background(), "joeblow", "TestPassword4$")
	if !errors.Is(err, store.ErrTokenCollision) {
		t.Errorf("Login with colliding store: got %v, want ErrTokenCollision", err)
	}
}
