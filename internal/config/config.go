package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string // empty disables API auth

	// External travel API
	MatrixAPIBaseURL string
	MatrixAPIKey     string

	// Optimization defaults
	DedupThresholdMeters float64
	DefaultResultCount   int

	// Rate limiting (requests per minute per client IP)
	RateLimitPerMinute int
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:                 envOr("PORT", ":8080"),
		DBPath:               envOr("DB_PATH", "./data/meetpoint.db"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		MatrixAPIBaseURL:     envOr("MATRIX_API_BASE_URL", "https://api.openrouteservice.org"),
		MatrixAPIKey:         os.Getenv("MATRIX_API_KEY"),
		DedupThresholdMeters: envFloatOr("DEDUP_THRESHOLD_METERS", 200),
		DefaultResultCount:   envIntOr("DEFAULT_RESULT_COUNT", 3),
		RateLimitPerMinute:   envIntOr("RATE_LIMIT_PER_MINUTE", 60),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
