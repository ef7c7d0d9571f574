package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"session-auth-service/backend/internal/session/manager"
	userdomain "session-auth-service/backend/internal/user/domain"
)

type fakeValidator struct {
	user *userdomain.User
	err  error
}

func (f *fakeValidator) Validate(ctx context.Context, token string) (*userdomain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "valid", header: "Bearer abc123", want: "abc123"},
		{name: "case insensitive scheme", header: "bearer abc123", want: "abc123"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic abc123", want: ""},
		{name: "no token", header: "Bearer", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := BearerToken(r); got != tt.want {
				t.Errorf("BearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	user := &userdomain.User{ID: "u1", Username: "joeblow", PasswordDigest: "secret"}
	mw := Authenticate(discardLogger(), &fakeValidator{user: user})

	var gotUser userdomain.Sanitized
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUser(r.Context())
		gotToken, _ = GetToken(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok-1")
	w := httptest.NewRecorder()
	mw(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotUser.ID != "u1" {
		t.Errorf("context user.ID = %q, want u1", gotUser.ID)
	}
	if gotToken != "tok-1" {
		t.Errorf("context token = %q, want tok-1", gotToken)
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	mw := Authenticate(discardLogger(), &fakeValidator{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next should not be called")
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	mw(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	for _, err := range []error{
		manager.ErrTokenNotFound,
		manager.ErrTokenExpired,
		manager.ErrUserNotFound,
	} {
		mw := Authenticate(discardLogger(), &fakeValidator{err: err})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer tok-1")
		w := httptest.NewRecorder()
		mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status for %v = %d, want 401", err, w.Code)
		}
	}
}
