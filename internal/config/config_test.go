package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every FOLIO_ env var that Load() reads.
var allConfigKeys = []string{
	"FOLIO_LISTEN_ADDR",
	"FOLIO_DB_PATH",
	"FOLIO_GITHUB_ACCOUNT",
	"FOLIO_GITHUB_TOKEN",
	"FOLIO_FETCH_TIMEOUT",
	"FOLIO_DOCUMENT_TIMEOUT",
	"FOLIO_DOCUMENT_MAX_BYTES",
	"FOLIO_DEFAULT_THEME",
	"FOLIO_PROFILE_FILE",
	"FOLIO_SEED_FILE",
}

// isolateConfigEnv saves and unsets all FOLIO_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FOLIO_GITHUB_ACCOUNT", "octocat")
	t.Setenv("FOLIO_GITHUB_TOKEN", "ghp_test123")
	t.Setenv("FOLIO_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("FOLIO_DB_PATH", "/tmp/test.db")
	t.Setenv("FOLIO_FETCH_TIMEOUT", "5s")
	t.Setenv("FOLIO_DOCUMENT_TIMEOUT", "1m")
	t.Setenv("FOLIO_DOCUMENT_MAX_BYTES", "1048576")
	t.Setenv("FOLIO_DEFAULT_THEME", "Dark")
	t.Setenv("FOLIO_PROFILE_FILE", "/etc/folio/profile.yaml")
	t.Setenv("FOLIO_SEED_FILE", "/etc/folio/seed.yaml")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "octocat", cfg.GitHubAccount)
	assert.Equal(t, "ghp_test123", cfg.GitHubToken)
	assert.True(t, cfg.HasGitHubToken())
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Minute, cfg.DocumentTimeout)
	assert.Equal(t, int64(1048576), cfg.DocumentMaxBytes)
	assert.Equal(t, "dark", cfg.DefaultTheme)
	assert.Equal(t, "/etc/folio/profile.yaml", cfg.ProfileFile)
	assert.Equal(t, "/etc/folio/seed.yaml", cfg.SeedFile)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FOLIO_GITHUB_ACCOUNT", "octocat")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "folio.db", cfg.DBPath)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 20*time.Second, cfg.DocumentTimeout)
	assert.Equal(t, int64(32<<20), cfg.DocumentMaxBytes)
	assert.Equal(t, "light", cfg.DefaultTheme)
	assert.Empty(t, cfg.ProfileFile)
	assert.Empty(t, cfg.SeedFile)
}

// TestLoad_MissingToken verifies that a missing token is not an error;
// requests are simply unauthenticated.
func TestLoad_MissingToken(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FOLIO_GITHUB_ACCOUNT", "octocat")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "", cfg.GitHubToken)
	assert.False(t, cfg.HasGitHubToken())
}

func TestLoad_MissingAccount(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "FOLIO_GITHUB_ACCOUNT")
}

func TestLoad_BlankAccount(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FOLIO_GITHUB_ACCOUNT", "   ")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "fetch timeout not a duration", key: "FOLIO_FETCH_TIMEOUT", val: "not-a-duration"},
		{name: "fetch timeout negative", key: "FOLIO_FETCH_TIMEOUT", val: "-1s"},
		{name: "document timeout zero", key: "FOLIO_DOCUMENT_TIMEOUT", val: "0s"},
		{name: "max bytes not a number", key: "FOLIO_DOCUMENT_MAX_BYTES", val: "lots"},
		{name: "max bytes zero", key: "FOLIO_DOCUMENT_MAX_BYTES", val: "0"},
		{name: "unknown theme", key: "FOLIO_DEFAULT_THEME", val: "sepia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv("FOLIO_GITHUB_ACCOUNT", "octocat")
			t.Setenv(tt.key, tt.val)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
