// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/naka-gawa/gitmetrics/internal/recent"
)

// Environment variable names.
const (
	EnvToken         = "GITHUB_TOKEN"
	EnvAPIURL        = "GITMETRICS_API_URL"
	EnvTimeout       = "GITMETRICS_TIMEOUT"
	EnvRateLimitWait = "GITMETRICS_RATE_LIMIT_WAIT"
	EnvRecentFile    = "GITMETRICS_RECENT_FILE"
)

// Config holds every setting the commands need.
type Config struct {
	// Token is optional; without it the GitHub API is used anonymously.
	Token         string
	APIURL        string
	Timeout       time.Duration
	RateLimitWait time.Duration
	RecentFile    string
}

// Load reads .env from the working directory, if present, and then the environment.
// Variables already set in the environment win over .env values.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with explicit dotenv files. Missing files are skipped.
func LoadFrom(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{
		Token:  strings.TrimSpace(os.Getenv(EnvToken)),
		APIURL: strings.TrimSpace(os.Getenv(EnvAPIURL)),
	}

	var err error
	if cfg.Timeout, err = durationEnv(EnvTimeout, 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitWait, err = durationEnv(EnvRateLimitWait, 30*time.Second); err != nil {
		return Config{}, err
	}

	cfg.RecentFile = strings.TrimSpace(os.Getenv(EnvRecentFile))
	if cfg.RecentFile == "" {
		if cfg.RecentFile, err = recent.DefaultPath(); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q (e.g., 500ms, 10s, 1m)", key, s)
	}
	return d, nil
}
