// Package config loads and validates the server configuration from the
// environment.
package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Config holds everything the server needs to run.
type Config struct {
	// Server
	Port    string
	BaseURL string

	// Database
	DatabasePath    string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Routing API
	DistanceAPIKey  string
	DistanceBaseURL string
	DistanceTimeout time.Duration

	// Registry lookups
	IdentityAPIToken string
	IdentityBaseURL  string
	CouncilSearchURL string

	// Quote pipeline
	SupplierBatchSize int
	InventoryCacheTTL time.Duration

	// HTTP rate limiting
	RateLimit rate.Limit
	RateBurst int

	// Logging
	LogLevel string
}

// Load reads the configuration from environment variables, applying
// defaults for everything optional.
func Load() (*Config, error) {
	config := &Config{
		Port:    getEnv("SERVER_PORT", "8080"),
		BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8080"),

		DatabasePath:    getEnv("DATABASE_PATH", "quotes.db"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 3),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		DistanceAPIKey:  os.Getenv("DISTANCE_API_KEY"),
		DistanceBaseURL: getEnv("DISTANCE_BASE_URL", ""),
		DistanceTimeout: getEnvDuration("DISTANCE_TIMEOUT", 10*time.Second),

		IdentityAPIToken: os.Getenv("IDENTITY_API_TOKEN"),
		IdentityBaseURL:  getEnv("IDENTITY_BASE_URL", ""),
		CouncilSearchURL: getEnv("COUNCIL_SEARCH_URL", ""),

		SupplierBatchSize: getEnvInt("SUPPLIER_BATCH_SIZE", 5),
		InventoryCacheTTL: getEnvDuration("INVENTORY_CACHE_TTL", 30*time.Minute),

		RateLimit: rate.Limit(getEnvFloat("RATE_LIMIT_RPS", 10)),
		RateBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
