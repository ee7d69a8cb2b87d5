package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config contains runtime settings for the portal client.
type Config struct {
	LogLevel string
	// BaseURL is the catalog API root, default http://localhost:5000/api.
	BaseURL string
	// PageSize is the default listing page size.
	PageSize int
}

// Load populates config from a .env file (if present) and environment
// variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel: "info",
		BaseURL:  "http://localhost:5000/api",
		PageSize: 10,
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("PORTAL_API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return cfg, fmt.Errorf("invalid PORTAL_API_BASE_URL %q: %w", cfg.BaseURL, err)
	}

	if v := os.Getenv("PORTAL_PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return cfg, fmt.Errorf("invalid PORTAL_PAGE_SIZE %q", v)
		}
		cfg.PageSize = size
	}

	return cfg, nil
}
