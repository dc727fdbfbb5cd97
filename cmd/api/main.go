// Command api is the Class Action Finder data API server.
//
// Usage:
//
//	finder-api
//	API_PORT=8080 finder-api

// @title Class Action Finder Data API
// @version 1.0.0
// @description Data acquisition, notification and privacy API: source prioritization, entity deduplication, the notification gate and digests, and PII utilities.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Class Action Finder
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/classactionfinder/finder-data/internal/api"
	"github.com/classactionfinder/finder-data/internal/api/handler"
	"github.com/classactionfinder/finder-data/internal/cache"
	"github.com/classactionfinder/finder-data/internal/config"
	"github.com/classactionfinder/finder-data/internal/db"
	"github.com/classactionfinder/finder-data/internal/listener"
	"github.com/classactionfinder/finder-data/internal/maintenance"
	"github.com/classactionfinder/finder-data/internal/notifications"
	"github.com/classactionfinder/finder-data/internal/security"
	"github.com/classactionfinder/finder-data/internal/store"

	_ "github.com/classactionfinder/finder-data/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	st := store.New(pool.Pool)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	go appCache.Run(ctx)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Rate limiter: Redis when configured so replicas share counters
	limiter, err := newLimiter(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to create rate limiter", "error", err)
		os.Exit(1)
	}

	// PII protection
	var cipher *security.FieldCipher
	if cfg.PIIEncryptionKey != nil {
		cipher, err = security.NewFieldCipher(cfg.PIIEncryptionKey)
		if err != nil {
			logger.Error("Failed to create PII cipher", "error", err)
			os.Exit(1)
		}
	} else if cfg.IsProduction() {
		logger.Error("PII_ENCRYPTION_KEY is required in production")
		os.Exit(1)
	} else {
		logger.Warn("PII encryption disabled (no PII_ENCRYPTION_KEY)")
	}
	anonymizer, err := security.NewAnonymizer(cfg.AnonymizeSecret)
	if err != nil {
		logger.Error("Failed to create anonymizer", "error", err)
		os.Exit(1)
	}
	auditor := security.NewAuditor(st, cipher, logger)

	notifier := notifications.NewService(st, cfg.Location(), logger)

	// Start LISTEN/NOTIFY consumer for claim status changes
	go listener.Start(ctx, cfg.DatabaseURL, notifier, logger)

	// Start maintenance tickers (cleanup, digests, catch-up sweep)
	go maintenance.Start(ctx, st, notifier, maintenance.Config{
		CleanupInterval: cfg.CleanupInterval,
		DigestInterval:  cfg.DigestInterval,
		CatchUpInterval: cfg.CatchUpInterval,
		RetentionDays:   cfg.RetentionDays,
		DigestHour:      cfg.DigestHour,
		Location:        cfg.Location(),
	}, logger)

	// Create router
	h := handler.New(handler.Deps{
		DB:            pool,
		Cache:         appCache,
		Config:        cfg,
		Sources:       st,
		Notifications: notifier,
		Users:         st,
		Auditor:       auditor,
		Cipher:        cipher,
		Anonymizer:    anonymizer,
		Logger:        logger,
	})
	router := api.NewRouter(h, limiter, cfg, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Class Action Finder Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	if closer, ok := limiter.(interface{ Close() error }); ok {
		closer.Close()
	}
	logger.Info("Server stopped")
}

// newLimiter returns a RedisLimiter when REDIS_URL is set, otherwise an
// in-process MemoryLimiter whose evict loop runs until ctx is cancelled.
func newLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (security.Limiter, error) {
	if !cfg.RateLimitEnabled {
		logger.Info("Rate limiting disabled")
		return nil, nil
	}
	if cfg.RedisURL != "" {
		l, err := security.NewRedisLimiter(ctx, cfg.RedisURL, cfg.RateLimitRequests, cfg.RateLimitWindow)
		if err != nil {
			return nil, err
		}
		logger.Info("Rate limiter using Redis",
			"requests", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
		return l, nil
	}
	l := security.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	go l.Run(ctx)
	logger.Info("Rate limiter using process memory",
		"requests", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
	return l, nil
}
