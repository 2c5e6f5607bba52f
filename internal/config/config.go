// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr       string
	DBPath           string
	GitHubAccount    string
	GitHubToken      string
	FetchTimeout     time.Duration
	DocumentTimeout  time.Duration
	DocumentMaxBytes int64
	DefaultTheme     string
	ProfileFile      string
	SeedFile         string
}

// HasGitHubToken reports whether GitHub requests are authenticated. Without a
// token the unauthenticated rate limit applies.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// FOLIO_GITHUB_ACCOUNT is required. Optional variables with defaults:
// FOLIO_LISTEN_ADDR (127.0.0.1:8080), FOLIO_DB_PATH (folio.db),
// FOLIO_FETCH_TIMEOUT (15s), FOLIO_DOCUMENT_TIMEOUT (20s),
// FOLIO_DOCUMENT_MAX_BYTES (32 MiB), FOLIO_DEFAULT_THEME (light).
// FOLIO_GITHUB_TOKEN, FOLIO_PROFILE_FILE and FOLIO_SEED_FILE are optional
// and have no default.
func Load() (*Config, error) {
	account := strings.TrimSpace(os.Getenv("FOLIO_GITHUB_ACCOUNT"))
	if account == "" {
		return nil, errors.New("FOLIO_GITHUB_ACCOUNT is required")
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("FOLIO_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "folio.db"
	if v, ok := os.LookupEnv("FOLIO_DB_PATH"); ok {
		dbPath = v
	}

	fetchTimeout, err := durationEnv("FOLIO_FETCH_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	documentTimeout, err := durationEnv("FOLIO_DOCUMENT_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}

	var maxBytes int64 = 32 << 20
	if v, ok := os.LookupEnv("FOLIO_DOCUMENT_MAX_BYTES"); ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("FOLIO_DOCUMENT_MAX_BYTES must be a positive integer, got %q", v)
		}
		maxBytes = parsed
	}

	theme := "light"
	if v, ok := os.LookupEnv("FOLIO_DEFAULT_THEME"); ok {
		theme = strings.ToLower(strings.TrimSpace(v))
		if theme != "light" && theme != "dark" {
			return nil, fmt.Errorf("FOLIO_DEFAULT_THEME must be light or dark, got %q", v)
		}
	}

	return &Config{
		ListenAddr:       listenAddr,
		DBPath:           dbPath,
		GitHubAccount:    account,
		GitHubToken:      os.Getenv("FOLIO_GITHUB_TOKEN"),
		FetchTimeout:     fetchTimeout,
		DocumentTimeout:  documentTimeout,
		DocumentMaxBytes: maxBytes,
		DefaultTheme:     theme,
		ProfileFile:      os.Getenv("FOLIO_PROFILE_FILE"),
		SeedFile:         os.Getenv("FOLIO_SEED_FILE"),
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, v)
	}
	return parsed, nil
}
