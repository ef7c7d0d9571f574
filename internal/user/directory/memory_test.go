package directory

import (
	"context"
	"testing"

	"session-auth-service/backend/internal/user/domain"
)

func seedUsers() []domain.User {
	return []domain.User{
		{ID: "u1", Username: "joeblow", Email: "joeblow@example.com", DisplayName: "Joe Blow", PasswordDigest: "d1"},
		{ID: "u2", Username: "alice", Email: "alice@example.com", DisplayName: "Alice", PasswordDigest: "d2"},
	}
}

func TestMemory_Lookups(t *testing.T) {
	dir := NewMemory(seedUsers())
	ctx := context.Background()

	u, err := dir.ByID(ctx, "u1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if u == nil || u.Username != "joeblow" {
		t.Fatalf("ByID = %+v, want joeblow", u)
	}

	u, err = dir.ByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("ByUsername: %v", err)
	}
	if u == nil || u.ID != "u2" {
		t.Fatalf("ByUsername = %+v, want u2", u)
	}

	u, err = dir.ByEmail(ctx, "joeblow@example.com")
	if err != nil {
		t.Fatalf("ByEmail: %v", err)
	}
	if u == nil || u.ID != "u1" {
		t.Fatalf("ByEmail = %+v, want u1", u)
	}
}

func TestMemory_MissingReturnsNilNil(t *testing.T) {
	dir := NewMemory(seedUsers())
	ctx := context.Background()

	u, err := dir.ByID(ctx, "nope")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if u != nil {
		t.Errorf("ByID missing = %+v, want nil", u)
	}
}

func TestMemory_CaseSensitiveMatch(t *testing.T) {
	dir := NewMemory(seedUsers())
	ctx := context.Background()

	u, err := dir.ByUsername(ctx, "JoeBlow")
	if err != nil {
		t.Fatalf("ByUsername: %v", err)
	}
	if u != nil {
		t.Errorf("ByUsername with wrong case = %+v, want nil", u)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	dir := NewMemory(seedUsers())
	ctx := context.Background()

	u1, _ := dir.ByID(ctx, "u1")
	u1.Username = "mutated"

	u2, _ := dir.ByID(ctx, "u1")
	if u2.Username != "joeblow" {
		t.Error("mutating a returned user should not affect the directory")
	}
}
