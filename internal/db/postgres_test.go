package db

import "testing"

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("Open should fail for an empty DSN")
	}
}
