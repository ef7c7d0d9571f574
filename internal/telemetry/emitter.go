// Package telemetry defines the event emitter used to ship auth events
// (logins, refreshes, revocations) to an observability backend.
package telemetry

import (
	"context"
	"time"
)

// Event is a single auth telemetry event.
type Event struct {
	UserID    string
	EventType string
	Source    string
	Metadata  string
	CreatedAt time.Time
}

// EventEmitter emits telemetry events (e.g. to OTel Logs). Best-effort;
// callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
