package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/classactionfinder/finder-data/internal/api/handler"
	"github.com/classactionfinder/finder-data/internal/config"
	"github.com/classactionfinder/finder-data/internal/security"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes. limiter may be nil, which disables rate limiting.
func NewRouter(h *handler.Handler, limiter security.Limiter, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag", "Retry-After"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled && limiter != nil {
		r.Use(RateLimitMiddleware(limiter, cfg.RateLimitWindow, logger))
	}

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(security.Headers)

		// Data sources
		r.Get("/sources", h.GetSources)
		r.Post("/sources", h.CreateSource)
		r.Put("/sources/{id}/reliability", h.UpdateSourceReliability)
		r.Post("/sources/{id}/attempts", h.RecordSourceAttempt)

		// Entity resolution
		r.Post("/entities/dedupe", h.DedupeEntities)

		// Notifications
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/notifications", h.ListNotifications)
			r.Post("/notifications", h.CreateNotification)
			r.Post("/notifications/read", h.MarkAllNotificationsRead)
			r.Get("/notifications/should-send", h.ShouldSend)
			r.Post("/notifications/digest", h.RunDigest)
			r.Get("/notification-preferences", h.GetPreferences)
			r.Put("/notification-preferences", h.UpdatePreferences)

			// Privacy
			r.Get("/export", h.ExportUser)
			r.Delete("/", h.DeleteUser)
		})
		r.Post("/notifications/{id}/read", h.MarkNotificationRead)
		r.Delete("/notifications/{id}", h.DeleteNotification)

		// Security utilities
		r.Post("/security/pii/scan", h.ScanPII)
		r.Post("/security/pii/anonymize", h.AnonymizePII)
		r.Post("/security/pii/minimize", h.MinimizePII)
		r.Post("/security/uploads/validate", h.ValidateUpload)
		r.Post("/security/bot-check", h.BotCheck)
	})

	return r
}
