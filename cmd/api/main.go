// Package main provides the entrypoint for the TripMapper API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tripmapper/tripmapper/internal/api"
	"github.com/tripmapper/tripmapper/internal/api/handler"
	"github.com/tripmapper/tripmapper/internal/config"
	"github.com/tripmapper/tripmapper/internal/database"
	"github.com/tripmapper/tripmapper/internal/dayhistory"
	"github.com/tripmapper/tripmapper/internal/mapconfig"
	"github.com/tripmapper/tripmapper/internal/trip"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripmapper-api"

	cfg := config.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Env).
		Msg("starting TripMapper API")

	ctx := context.Background()

	// Load the itinerary document. A missing or malformed file is not
	// fatal: uploads and the day registry still work without it.
	tripData, err := trip.Load(cfg.TripDataFile)
	if err != nil {
		log.Warn().Err(err).Str("file", cfg.TripDataFile).Msg("trip data unavailable, map configs disabled")
	} else {
		log.Info().
			Str("trip", tripData.TripName).
			Int("days", len(tripData.Days)).
			Msg("trip data loaded")
	}

	// Day history stores: PostgreSQL when enabled, in-memory otherwise.
	var (
		metaStore   dayhistory.MetaStore
		pathStore   dayhistory.PathStore
		readyChecks map[string]handler.ReadyCheck
		pool        *pgxpool.Pool
	)
	if cfg.DBEnabled {
		dbConfig := database.ConfigFromEnv()
		pool, err = database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		metaStore = dayhistory.NewPostgresMetaStore(pool)
		pathStore = dayhistory.NewPostgresPathStore(pool)
		readyChecks = map[string]handler.ReadyCheck{
			"postgres": pool.Ping,
		}
	} else {
		log.Info().Msg("running with in-memory day history stores")
	}

	dayService := dayhistory.NewService(dayhistory.ServiceConfig{
		Meta:   metaStore,
		Paths:  pathStore,
		Logger: log,
	})
	log.Info().Msg("day history service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		Trip:        tripData,
		Builder:     mapconfig.NewBuilder(),
		DayService:  dayService,
		ReadyChecks: readyChecks,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
