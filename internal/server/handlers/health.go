package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"session-auth-service/backend/pkg/api"
)

// Pinger reports backend reachability (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves GET /api/v1/health.
type HealthHandler struct {
	logger *slog.Logger
	db     Pinger
}

// NewHealthHandler returns a health handler. db may be nil (in-memory mode);
// the DB ping is then skipped.
func NewHealthHandler(logger *slog.Logger, db Pinger) *HealthHandler {
	return &HealthHandler{logger: logger, db: db}
}

// Health reports readiness. Returns 503 when the database is unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health: db ping failed", slog.Any("error", err))
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(api.HealthResponse{Status: status}); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
