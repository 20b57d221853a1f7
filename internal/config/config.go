// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the TripMapper API configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// Env is the deployment environment (development, production).
	Env string

	// TripDataFile is the path to the itinerary JSON document.
	TripDataFile string

	// DBEnabled selects PostgreSQL-backed day history stores. When false
	// the service runs on in-memory stores.
	DBEnabled bool

	// GeocoderBaseURL points at a Nominatim-compatible search endpoint.
	GeocoderBaseURL string

	// GeocoderTimeout bounds a single geocoding request.
	GeocoderTimeout time.Duration
}

// Load reads .env (if present) and builds the Config from environment
// variables.
func Load() Config {
	// Missing .env is fine; containers set the environment directly.
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnvOrDefault("GEOCODER_TIMEOUT", "10s"))
	if err != nil {
		timeout = 10 * time.Second
	}
	dbEnabled, _ := strconv.ParseBool(getEnvOrDefault("DB_ENABLED", "false"))

	return Config{
		Port:            getEnvOrDefault("APP_PORT", "8080"),
		Env:             getEnvOrDefault("APP_ENV", "development"),
		TripDataFile:    getEnvOrDefault("TRIP_DATA_FILE", "data/trip.json"),
		DBEnabled:       dbEnabled,
		GeocoderBaseURL: getEnvOrDefault("GEOCODER_BASE_URL", ""),
		GeocoderTimeout: timeout,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
