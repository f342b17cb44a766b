package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func clearAll(t *testing.T) {
	for _, key := range []string{EnvToken, EnvAPIURL, EnvTimeout, EnvRateLimitWait, EnvRecentFile} {
		unsetEnv(t, key)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	clearAll(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Empty(t, cfg.Token)
	assert.Empty(t, cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWait)
	assert.Equal(t, "recent_searches.json", filepath.Base(cfg.RecentFile))
}

func TestLoadFrom_Environment(t *testing.T) {
	clearAll(t)
	t.Setenv(EnvToken, " secret ")
	t.Setenv(EnvAPIURL, "https://ghe.example.com/api/v3/")
	t.Setenv(EnvTimeout, "3s")
	t.Setenv(EnvRateLimitWait, "1m")
	t.Setenv(EnvRecentFile, "/tmp/recent.json")

	cfg, err := LoadFrom()

	require.NoError(t, err)
	assert.Equal(t, Config{
		Token:         "secret",
		APIURL:        "https://ghe.example.com/api/v3/",
		Timeout:       3 * time.Second,
		RateLimitWait: time.Minute,
		RecentFile:    "/tmp/recent.json",
	}, cfg)
}

func TestLoadFrom_DotEnv(t *testing.T) {
	clearAll(t)
	t.Setenv(EnvRecentFile, "/tmp/recent.json")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GITHUB_TOKEN=from-dotenv\nGITMETRICS_TIMEOUT=2s\n"), 0o644))

	cfg, err := LoadFrom(envFile)

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Token)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoadFrom_InvalidDuration(t *testing.T) {
	clearAll(t)
	t.Setenv(EnvRecentFile, "/tmp/recent.json")
	t.Setenv(EnvTimeout, "soon")

	_, err := LoadFrom()

	assert.ErrorContains(t, err, EnvTimeout)
}
