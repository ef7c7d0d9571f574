// Package handlers implements the HTTP handlers of the auth API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"session-auth-service/backend/internal/server/middleware"
	"session-auth-service/backend/internal/session/manager"
	"session-auth-service/backend/internal/session/store"
	"session-auth-service/backend/internal/telemetry"
	"session-auth-service/backend/pkg/api"
)

// AuthHandler serves the session lifecycle endpoints.
type AuthHandler struct {
	logger   *slog.Logger
	sessions *manager.Manager
	emitter  telemetry.EventEmitter
}

// NewAuthHandler returns a handler backed by the given session manager.
// emitter may be nil; telemetry is then skipped.
func NewAuthHandler(logger *slog.Logger, sessions *manager.Manager, emitter telemetry.EventEmitter) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		sessions: sessions,
		emitter:  emitter,
	}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Identifier == "" || req.Password == "" {
		h.sendError(w, "identifier and password are required", http.StatusBadRequest)
		return
	}

	res, err := h.sessions.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, manager.ErrAuthenticationFailed) {
			h.logger.WarnContext(ctx, "login failed", slog.String("identifier", req.Identifier))
			h.sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, store.ErrTokenCollision) {
			h.logger.ErrorContext(ctx, "session token collision", slog.Any("error", err))
		} else {
			h.logger.ErrorContext(ctx, "login error", slog.Any("error", err))
		}
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in", slog.String("user_id", res.User.ID))
	h.emit(ctx, res.User.ID, "auth.login")

	h.sendJSON(w, api.SessionResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User: api.User{
			ID:          res.User.ID,
			Username:    res.User.Username,
			Email:       res.User.Email,
			DisplayName: res.User.DisplayName,
		},
	}, http.StatusOK)
}

// Refresh handles POST /api/v1/auth/refresh. The bearer token is consumed
// and a fresh one returned.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := middleware.BearerToken(r)
	if token == "" {
		h.sendError(w, "missing token", http.StatusUnauthorized)
		return
	}

	res, err := h.sessions.Refresh(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, manager.ErrTokenNotFound),
			errors.Is(err, manager.ErrTokenExpired),
			errors.Is(err, manager.ErrUserNotFound):
			h.sendError(w, "invalid token", http.StatusUnauthorized)
		default:
			h.logger.ErrorContext(ctx, "refresh error", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.emit(ctx, res.User.ID, "auth.refresh")

	h.sendJSON(w, api.RefreshResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}, http.StatusOK)
}

// Logout handles POST /api/v1/auth/logout. Revocation is idempotent, so an
// already-revoked or unknown token still gets 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := middleware.BearerToken(r)
	if token == "" {
		h.sendError(w, "missing token", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.Revoke(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "logout error", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.emit(ctx, "", "auth.logout")
	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll handles POST /api/v1/auth/logout_all. Requires authentication;
// revokes every session of the calling user.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.GetUser(ctx)
	if !ok {
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	n, err := h.sessions.RevokeAll(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "logout_all error", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "all sessions revoked",
		slog.String("user_id", user.ID),
		slog.Int("count", n))
	h.emitMeta(ctx, user.ID, "auth.logout_all", strconv.Itoa(n))

	h.sendJSON(w, api.LogoutAllResponse{RevokedCount: n}, http.StatusOK)
}

// Me handles GET /api/v1/auth/me. Requires authentication.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	h.sendJSON(w, api.User{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, http.StatusOK)
}

func (h *AuthHandler) emit(ctx context.Context, userID, eventType string) {
	h.emitMeta(ctx, userID, eventType, "")
}

func (h *AuthHandler) emitMeta(ctx context.Context, userID, eventType, metadata string) {
	telemetry.EmitAsync(h.emitter, ctx, &telemetry.Event{
		UserID:    userID,
		EventType: eventType,
		Source:    "http",
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	})
}

func (h *AuthHandler) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
