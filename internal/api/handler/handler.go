// Package handler provides HTTP handlers for all API endpoints.
// Handlers call the domain packages directly; persistence goes through the
// store interfaces those packages declare.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/classactionfinder/finder-data/internal/acquisition"
	"github.com/classactionfinder/finder-data/internal/api/respond"
	"github.com/classactionfinder/finder-data/internal/cache"
	"github.com/classactionfinder/finder-data/internal/config"
	"github.com/classactionfinder/finder-data/internal/db"
	"github.com/classactionfinder/finder-data/internal/notifications"
	"github.com/classactionfinder/finder-data/internal/security"
)

// Pinger checks database connectivity.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// UserStore reads and erases whole user records for the privacy endpoints.
type UserStore interface {
	GetUserRecord(ctx context.Context, userID string) (map[string]any, error)
	DeleteUser(ctx context.Context, userID string) error
}

// Deps are the Handler's collaborators. Cipher may be nil when no PII key
// is configured.
type Deps struct {
	DB            Pinger
	Cache         *cache.Cache
	Config        *config.Config
	Sources       acquisition.SourceStore
	Notifications *notifications.Service
	Users         UserStore
	Auditor       *security.Auditor
	Cipher        *security.FieldCipher
	Anonymizer    *security.Anonymizer
	Logger        *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	db      Pinger
	cache   *cache.Cache
	cfg     *config.Config
	sources acquisition.SourceStore
	notify  *notifications.Service
	users   UserStore
	auditor *security.Auditor
	cipher  *security.FieldCipher
	anon    *security.Anonymizer
	logger  *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:      d.DB,
		cache:   d.Cache,
		cfg:     d.Config,
		sources: d.Sources,
		notify:  d.Notifications,
		users:   d.Users,
		auditor: d.Auditor,
		cipher:  d.Cipher,
		anon:    d.Anonymizer,
		logger:  logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and enabled features.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Class Action Finder Data API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"features": []string{
			"source_prioritization",
			"entity_deduplication",
			"notification_gate",
			"notification_digests",
			"pii_encryption",
			"rate_limiting",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeStoreError maps db.ErrNotFound to 404, a duplicate notification to
// 409 and anything else to 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, db.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", what+" not found")
		return
	}
	if errors.Is(err, notifications.ErrDuplicate) {
		respond.WriteError(w, http.StatusConflict, "DUPLICATE", what+" already exists")
		return
	}
	h.logger.Error("Store operation failed", "resource", what, "error", err)
	respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process "+what)
}
