// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/gitmetrics/internal/domain"
	"github.com/naka-gawa/gitmetrics/internal/gateway"
)

// Aggregator is the use case for assembling a complete GitHub profile.
// It orchestrates the fetching and summarizing of data.
type Aggregator struct {
	fetcher  gateway.Fetcher
	logger   zerolog.Logger
	topLimit int
	location *time.Location
}

// AggregatorOption customizes an Aggregator.
type AggregatorOption func(*Aggregator)

// WithTopLimit sets how many repositories TopRepos keeps. Negative values are treated as zero.
func WithTopLimit(limit int) AggregatorOption {
	return func(a *Aggregator) {
		if limit < 0 {
			limit = 0
		}
		a.topLimit = limit
	}
}

// WithLocation pins the time zone used for monthly activity buckets.
func WithLocation(loc *time.Location) AggregatorOption {
	return func(a *Aggregator) {
		if loc != nil {
			a.location = loc
		}
	}
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger zerolog.Logger, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		fetcher:  fetcher,
		logger:   logger,
		topLimit: DefaultTopReposLimit,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate performs the main business logic.
// It fetches the profile and the repositories concurrently and derives every summary from them.
// If either read fails the whole call fails and no partial profile is returned.
func (a *Aggregator) Aggregate(ctx context.Context, username string) (*domain.CompleteProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}
	log := a.logger.With().Str("user", username).Logger()
	log.Debug().Msg("starting profile aggregation")

	var (
		profile *domain.Profile
		repos   []domain.Repository
	)

	// The first failing read cancels egCtx, which aborts the other one.
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		profile, err = a.fetcher.FetchProfile(egCtx, username)
		return err
	})

	eg.Go(func() error {
		var err error
		repos, err = a.fetcher.FetchRepos(egCtx, username)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	log.Debug().Int("repos", len(repos)).Msg("all data fetched successfully")

	if profile == nil {
		return nil, fmt.Errorf("no profile returned for %q: %w", username, domain.ErrFetchFailed)
	}
	if repos == nil {
		repos = []domain.Repository{}
	}

	result := &domain.CompleteProfile{
		Profile:       *profile,
		Repos:         repos,
		LanguageStats: LanguageHistogram(repos),
		TopRepos:      TopRepos(repos, a.topLimit),
		TotalStats:    SumTotals(repos),
		Activity:      MonthlyActivityIn(repos, a.location),
		Popularity:    PopularityOf(repos),
	}

	log.Debug().Msg("aggregation complete")
	return result, nil
}
