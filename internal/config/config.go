// Package config provides environment-driven configuration for the jobcoach server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the settings needed to run the HTTP server and its
// collaborators.
type ServerConfig struct {
	Port          int
	DatabaseURL   string
	RedisURL      string // optional; drafts fall back to in-memory storage when empty
	OfferFeedURL  string // optional; offer sync is disabled when empty
	OfferSyncSpec string // cron spec for the periodic offer refresh
	DraftTTL      time.Duration
	DraftDebounce time.Duration
}

// NewServerConfig builds a ServerConfig from the environment. DATABASE_URL is
// required; everything else has a default or is optional.
func NewServerConfig() (*ServerConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	cfg := &ServerConfig{
		Port:          envInt("PORT", 8080),
		DatabaseURL:   databaseURL,
		RedisURL:      os.Getenv("REDIS_URL"),
		OfferFeedURL:  os.Getenv("OFFER_FEED_URL"),
		OfferSyncSpec: envString("OFFER_SYNC_SCHEDULE", "@every 1h"),
		DraftTTL:      envDuration("DRAFT_TTL", 7*24*time.Hour),
		DraftDebounce: envDuration("DRAFT_DEBOUNCE", 800*time.Millisecond),
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.DraftTTL <= 0 {
		return fmt.Errorf("draft TTL must be positive, got: %s", c.DraftTTL)
	}
	if c.DraftDebounce < 0 {
		return fmt.Errorf("draft debounce must be non-negative, got: %s", c.DraftDebounce)
	}
	return nil
}

// envString reads an environment variable with a default value.
func envString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// envInt reads an integer environment variable with a default value.
func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

// envDuration reads a duration environment variable with a default value.
func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
