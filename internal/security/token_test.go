package security

import (
	"encoding/base64"
	"testing"
)

func TestNewSessionToken(t *testing.T) {
	token, err := NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if token == "" {
		t.Fatal("token should not be empty")
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not URL-safe base64: %v", err)
	}
	if len(raw) != tokenBytes {
		t.Errorf("token entropy = %d bytes, want %d", len(raw), tokenBytes)
	}
}

func TestNewSessionToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := NewSessionToken()
		if err != nil {
			t.Fatalf("NewSessionToken: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token after %d iterations", i)
		}
		seen[token] = true
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	a := HashToken("some-token")
	b := HashToken("some-token")
	if a != b {
		t.Errorf("HashToken not deterministic: %q != %q", a, b)
	}
	if a == "some-token" {
		t.Error("hash should not equal the input")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestTokenHashEqual(t *testing.T) {
	stored := HashToken("token-a")
	if !TokenHashEqual("token-a", stored) {
		t.Error("TokenHashEqual should match the original token")
	}
	if TokenHashEqual("token-b", stored) {
		t.Error("TokenHashEqual should reject a different token")
	}
	if TokenHashEqual("", stored) {
		t.Error("TokenHashEqual should reject an empty token")
	}
}
