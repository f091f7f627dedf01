// Package config loads service configuration from environment variables,
// with an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for memescout.
type Config struct {
	// HTTP
	HTTPAddr string

	// Storage
	PostgresDSN   string
	ClickhouseDSN string
	UseMemory     bool

	// Logging
	LogLevel string

	// Scheduler cadences
	SyncInterval      time.Duration
	ArchivalInterval  time.Duration
	CleanupInterval   time.Duration
	StatsInterval     time.Duration
	IntegrityInterval time.Duration

	// Job bounds
	JobTimeout       time.Duration
	ArchivalTimeout  time.Duration
	ArchiveBatchSize int

	// Market data
	ProviderSeed int64
}

// Load reads configuration from the environment and validates it.
// A .env file in the working directory is loaded first when present;
// existing environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.UseMemory, err = parseBoolEnv("USE_MEMORY", false); err != nil {
		return cfg, err
	}
	if cfg.SyncInterval, err = parseDurationEnv("SYNC_INTERVAL", 10*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.ArchivalInterval, err = parseDurationEnv("ARCHIVAL_INTERVAL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.CleanupInterval, err = parseDurationEnv("CLEANUP_INTERVAL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.StatsInterval, err = parseDurationEnv("STATS_INTERVAL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.IntegrityInterval, err = parseDurationEnv("INTEGRITY_INTERVAL", time.Hour); err != nil {
		return cfg, err
	}
	if cfg.JobTimeout, err = parseDurationEnv("JOB_TIMEOUT", 5*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.ArchivalTimeout, err = parseDurationEnv("ARCHIVAL_TIMEOUT", 15*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.ArchiveBatchSize, err = parseIntEnv("ARCHIVE_BATCH_SIZE", 50000); err != nil {
		return cfg, err
	}
	if cfg.ProviderSeed, err = parseInt64Env("PROVIDER_SEED", time.Now().UnixNano()); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func parseIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseInt64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return fallback, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
