// Package api provides the HTTP API for TripMapper.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripmapper/tripmapper/internal/api/handler"
	"github.com/tripmapper/tripmapper/internal/api/middleware"
	"github.com/tripmapper/tripmapper/internal/dayhistory"
	"github.com/tripmapper/tripmapper/internal/mapconfig"
	"github.com/tripmapper/tripmapper/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	Trip        trip.Trip
	Builder     *mapconfig.Builder
	DayService  *dayhistory.Service
	ReadyChecks map[string]handler.ReadyCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	builder := cfg.Builder
	if builder == nil {
		builder = mapconfig.NewBuilder()
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadyChecks)
	daysHandler := handler.NewDaysHandler(cfg.DayService)
	mapConfigHandler := handler.NewMapConfigHandler(builder, cfg.Trip, cfg.DayService)

	// Create rate limit middleware for different endpoint categories
	uploadRateLimit := middleware.RateLimitByIP(middleware.UploadRateLimit)     // 12 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 120 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Day registry and per-day data
		r.Route("/days", func(r chi.Router) {
			r.Use(standardRateLimit)

			r.Get("/", daysHandler.ListDays)
			r.Put("/active", daysHandler.SetActiveDay)

			// Uploads parse and persist files - strict rate limiting
			r.With(uploadRateLimit).Post("/uploads", daysHandler.UploadPath)

			r.Route("/{dayId}", func(r chi.Router) {
				r.Get("/path", daysHandler.GetDayPath)
				r.Get("/map-config", mapConfigHandler.GetMapConfig)
				r.Post("/map-config/patch", mapConfigHandler.PatchMapConfig)
			})
		})
	})

	return r
}
