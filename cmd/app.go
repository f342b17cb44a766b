package cmd

import (
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/gitmetrics/internal/config"
	"github.com/naka-gawa/gitmetrics/internal/domain"
	"github.com/naka-gawa/gitmetrics/internal/gateway"
	"github.com/naka-gawa/gitmetrics/internal/recent"
)

// app carries the dependencies shared by the commands.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	recent *recent.Store
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().
		Logger()
}

// newApp loads configuration, applies flag overrides and opens the recent searches store.
func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()
	verbose, _ := flags.GetBool("verbose")
	logger := newLogger(cmd.ErrOrStderr(), verbose)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.Changed("api-url") {
		cfg.APIURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("recent-file") {
		cfg.RecentFile, _ = flags.GetString("recent-file")
	}

	store, err := recent.Load(cfg.RecentFile, logger)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, recent: store}, nil
}

// github builds the gateway. It is only needed by commands that talk to the API.
func (a *app) github() (*gateway.GitHubGateway, error) {
	return gateway.NewGitHubGateway(gateway.Options{
		Token:            a.cfg.Token,
		BaseURL:          a.cfg.APIURL,
		Timeout:          a.cfg.Timeout,
		MaxRateLimitWait: a.cfg.RateLimitWait,
	}, a.logger)
}

// queryError turns a failed query into the single message shown to the user.
func (a *app) queryError(err error) error {
	a.logger.Debug().Err(err).Msg("query failed")
	if msg := domain.UserMessage(err); msg != "" {
		return errors.New(msg)
	}
	return err
}
