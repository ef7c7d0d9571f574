package domain

import (
	"testing"
	"time"
)

func TestUser_Sanitized(t *testing.T) {
	u := &User{
		ID:             "u1",
		Username:       "joeblow",
		Email:          "joeblow@example.com",
		DisplayName:    "Joe Blow",
		PasswordDigest: "$2a$12$secret",
		CreatedAt:      time.Now().UTC(),
	}

	s := u.Sanitized()
	if s.ID != u.ID || s.Username != u.Username || s.Email != u.Email || s.DisplayName != u.DisplayName {
		t.Errorf("Sanitized = %+v, want fields copied from %+v", s, u)
	}
}

func TestUser_Validate(t *testing.T) {
	valid := User{ID: "u1", Username: "joeblow", Email: "joeblow@example.com", PasswordDigest: "digest"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate valid user: %v", err)
	}

	testCases := []struct {
		name   string
		mutate func(u *User)
	}{
		{"missing id", func(u *User) { u.ID = "" }},
		{"missing username", func(u *User) { u.Username = "" }},
		{"missing email", func(u *User) { u.Email = "" }},
		{"missing digest", func(u *User) { u.PasswordDigest = "" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := valid
			tc.mutate(&u)
			if err := u.Validate(); err == nil {
				t.Error("Validate should return error")
			}
		})
	}
}
