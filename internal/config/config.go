// Package config loads and validates application configuration from
// environment variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override the default.
	CORSOrigins []string

	// DatabaseURL is the Postgres connection string. Optional: without it
	// no snapshots are stored and there is no fallback when providers fail.
	DatabaseURL string

	// RedisAddr is the host:port of the insights cache. Optional.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CacheTTL is how long analyzed insights stay cached. Defaults to 5m.
	CacheTTL time.Duration

	// APIKey is the AviationStack access key. Required.
	APIKey string

	// AviationStackURL is the AviationStack API root.
	AviationStackURL string

	// ScrapeURL is the departures board used when AviationStack has nothing.
	// Optional.
	ScrapeURL string

	// DashboardAPIURL is where dashboard sessions fetch insights from.
	// Defaults to this server, http://localhost:$PORT.
	DashboardAPIURL string

	// DashboardDiscardStale makes dashboards drop responses overtaken by a
	// newer search instead of drawing whichever finishes last.
	DashboardDiscardStale bool
}

// Load reads .env from the working directory when present, then builds a
// Config from the environment. Variables already set in the environment win
// over .env. Returns an error naming missing required variables or values
// that do not parse.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8080")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		APIKey:           os.Getenv("API_KEY"),
		AviationStackURL: getEnv("AVIATIONSTACK_URL", "http://api.aviationstack.com/v1"),
		ScrapeURL:        os.Getenv("SCRAPE_URL"),
	}
	cfg.DashboardAPIURL = getEnv("DASHBOARD_API_URL", "http://localhost:"+cfg.Port)

	var problems []string

	if cfg.APIKey == "" {
		problems = append(problems, "required environment variables not set: API_KEY")
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		problems = append(problems, fmt.Sprintf("REDIS_DB: %v", err))
	}
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "5m")); err != nil {
		problems = append(problems, fmt.Sprintf("CACHE_TTL: %v", err))
	} else if cfg.CacheTTL <= 0 {
		problems = append(problems, "CACHE_TTL: must be positive")
	}
	if cfg.DashboardDiscardStale, err = strconv.ParseBool(getEnv("DASHBOARD_DISCARD_STALE", "false")); err != nil {
		problems = append(problems, fmt.Sprintf("DASHBOARD_DISCARD_STALE: %v", err))
	}

	if len(problems) > 0 {
		return Config{}, errors.New(strings.Join(problems, "; "))
	}
	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
