// Package server assembles the HTTP handler tree of the auth service.
package server

import (
	"log/slog"
	"net/http"

	"session-auth-service/backend/internal/server/handlers"
	"session-auth-service/backend/internal/server/middleware"
	"session-auth-service/backend/internal/session/manager"
	"session-auth-service/backend/internal/telemetry"
)

// Deps holds the dependencies of the HTTP handlers.
type Deps struct {
	Logger   *slog.Logger
	Sessions *manager.Manager
	// Emitter ships auth telemetry events. May be nil.
	Emitter telemetry.EventEmitter
	// DB is used for the health check. May be nil in in-memory mode.
	DB handlers.Pinger
}

// NewHandler builds the route tree.
//
// Public:        POST /api/v1/auth/login, /refresh, /logout; GET /api/v1/health
// Authenticated: GET /api/v1/auth/me, POST /api/v1/auth/logout_all
//
// Refresh and logout operate on the bearer token itself and do their own
// validation, so they stay outside the auth middleware.
func NewHandler(deps Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(deps.Logger, deps.Sessions, deps.Emitter)
	healthHandler := handlers.NewHealthHandler(deps.Logger, deps.DB)

	authenticate := middleware.Authenticate(deps.Logger, deps.Sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/v1/auth/me", authenticate(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/v1/auth/logout_all", authenticate(http.HandlerFunc(authHandler.LogoutAll)))
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	var h http.Handler = mux
	h = middleware.Logging(deps.Logger)(h)
	h = middleware.Recovery(deps.Logger)(h)
	return h
}
