package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"session-auth-service/backend/internal/audit"
	auditrepo "session-auth-service/backend/internal/audit/repository"
	"session-auth-service/backend/internal/config"
	"session-auth-service/backend/internal/credential"
	"session-auth-service/backend/internal/db"
	"session-auth-service/backend/internal/security"
	"session-auth-service/backend/internal/server"
	"session-auth-service/backend/internal/server/handlers"
	"session-auth-service/backend/internal/session/manager"
	"session-auth-service/backend/internal/session/store"
	"session-auth-service/backend/internal/telemetry"
	otelsetup "session-auth-service/backend/internal/telemetry/otel"
	"session-auth-service/backend/internal/user/directory"
	userdomain "session-auth-service/backend/internal/user/domain"
)

const serviceName = "session-auth-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	emitter := otelsetup.NewEventEmitter(providers.LoggerProvider)

	hasher := security.NewHasher(cfg.BcryptCost)

	var (
		dir         directory.Directory
		sessions    store.Store
		auditLogger audit.AuditLogger
		pinger      handlers.Pinger
	)
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer dbConn.Close()
		dir = directory.NewPostgres(dbConn)
		sessions = store.NewPostgres(dbConn)
		auditLogger = audit.NewLogger(auditrepo.NewPostgresRepository(dbConn))
		pinger = dbConn
		logger.Info("using postgres store")
	} else {
		dir = directory.NewMemory(demoUsers(hasher))
		sessions = store.NewMemory()
		auditLogger = audit.NewLogger(nil)
		logger.Info("DATABASE_URL not set, using in-memory store with demo user")
	}

	verifier := credential.NewVerifier(dir, hasher)
	mgr := manager.New(verifier, dir, sessions, auditLogger, cfg.TTL())
	go mgr.RunSweeper(ctx, cfg.SweepEvery())

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: server.NewHandler(server.Deps{
			Logger:   logger,
			Sessions: mgr,
			Emitter:  emitter,
			DB:       pinger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down HTTP server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	cancel()

	// Let in-flight async telemetry emits finish before tearing down exporters.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown", "error", err)
	}
	logger.Info("HTTP server stopped")
}

// demoUsers returns the development user for in-memory mode.
func demoUsers(hasher *security.Hasher) []userdomain.User {
	digest, err := hasher.Hash([]byte("TestPassword4$"))
	if err != nil {
		log.Fatalf("seed demo user: %v", err)
	}
	return []userdomain.User{{
		ID:             "demo-user-001",
		Username:       "joeblow",
		Email:          "joeblow@example.com",
		DisplayName:    "Joe Blow",
		PasswordDigest: digest,
		CreatedAt:      time.Now().UTC(),
	}}
}
