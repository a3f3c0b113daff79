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

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/albudairi/techrewards/internal/blob"
	"github.com/albudairi/techrewards/internal/database"
	"github.com/albudairi/techrewards/internal/logging"
	"github.com/albudairi/techrewards/internal/server"
	"github.com/albudairi/techrewards/internal/store"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	godotenv.Load()

	logger := logging.Setup(env("REWARDS_LOG_LEVEL", "info"), env("REWARDS_LOG_FORMAT", "text"))

	port := env("REWARDS_PORT", "8080")
	dbPath := env("REWARDS_DB_PATH", "techrewards.db")

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Seed the super admin on first boot so the dashboard is reachable.
	adminEmail := env("REWARDS_ADMIN_EMAIL", "admin@localhost")
	adminPassword := env("REWARDS_ADMIN_PASSWORD", "admin")
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	if err := store.NewAdminStore(db).Seed(adminEmail, string(hash)); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	blobs, uploadsDir, err := buildBlobStore(logger)
	if err != nil {
		log.Fatalf("failed to set up image storage: %v", err)
	}

	srv := server.New(db, blobs, uploadsDir, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupLoop(ctx, srv, logger)

	go func() {
		logger.Info("listening", "port", port, "db", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// buildBlobStore picks S3 when credentials are configured, local disk
// otherwise. The second return value is the local uploads directory, empty
// for S3.
func buildBlobStore(logger *slog.Logger) (blob.Store, string, error) {
	s3cfg := blob.S3Config{
		Endpoint:  os.Getenv("REWARDS_S3_ENDPOINT"),
		Bucket:    os.Getenv("REWARDS_S3_BUCKET"),
		Region:    env("REWARDS_S3_REGION", "auto"),
		AccessKey: os.Getenv("REWARDS_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("REWARDS_S3_SECRET_KEY"),
	}
	if s3cfg.Configured() {
		logger.Info("gift images stored in s3", "bucket", s3cfg.Bucket)
		return blob.NewS3Store(s3cfg), "", nil
	}

	dir := env("REWARDS_UPLOADS_DIR", "uploads")
	local, err := blob.NewLocalStore(dir)
	if err != nil {
		return nil, "", err
	}
	logger.Info("gift images stored locally", "dir", dir)
	return local, dir, nil
}

// cleanupLoop periodically drops expired sessions and stale rate-limit
// entries.
func cleanupLoop(ctx context.Context, srv *server.Server, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := srv.SessionStore().DeleteExpired(); err != nil {
				logger.Error("session cleanup", "error", err)
			} else if n > 0 {
				logger.Info("expired sessions removed", "count", n)
			}
			srv.RateLimiter().Cleanup()
		}
	}
}
