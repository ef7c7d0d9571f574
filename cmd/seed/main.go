// seed inserts a development user for local testing.
// Idempotent: skips the insert if the demo user (joeblow) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"session-auth-service/backend/internal/config"
	"session-auth-service/backend/internal/db"
	"session-auth-service/backend/internal/security"
	"session-auth-service/backend/internal/user/directory"
)

const (
	demoUserID      = "demo-user-001"
	demoUsername    = "joeblow"
	demoEmail       = "joeblow@example.com"
	demoDisplayName = "Joe Blow"
	demoPassword    = "TestPassword4$"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	dir := directory.NewPostgres(conn)
	existing, err := dir.ByUsername(ctx, demoUsername)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (joeblow exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	digest, err := hasher.Hash([]byte(demoPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO users (id, username, email, display_name, password_digest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		demoUserID, demoUsername, demoEmail, demoDisplayName, digest, time.Now().UTC(),
	)
	if err != nil {
		log.Fatalf("insert demo user: %v", err)
	}

	log.Printf("Seeded demo user %s (%s)", demoUsername, demoEmail)
}
