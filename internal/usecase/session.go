package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/naka-gawa/gitmetrics/internal/domain"
)

// Profiler assembles a complete profile for a username. Aggregator implements it.
type Profiler interface {
	Aggregate(ctx context.Context, username string) (*domain.CompleteProfile, error)
}

// RecentRecorder remembers successfully searched usernames.
type RecentRecorder interface {
	Add(username string) error
}

// State is the last committed query outcome.
type State struct {
	Generation uint64
	Username   string
	Profile    *domain.CompleteProfile
	Err        error
}

// Session owns the single live profile query. Starting a query supersedes the
// previous one: its context is canceled and, should it still return, its
// outcome is discarded instead of committed.
type Session struct {
	profiler Profiler
	recent   RecentRecorder
	logger   zerolog.Logger
	onCommit func(State)

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
}

// NewSession creates a Session. recent may be nil.
func NewSession(profiler Profiler, recent RecentRecorder, logger zerolog.Logger) *Session {
	return &Session{
		profiler: profiler,
		recent:   recent,
		logger:   logger,
	}
}

// OnCommit registers fn to be called with every committed state.
// fn runs with the session lock held and must not call back into the Session.
func (s *Session) OnCommit(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommit = fn
}

// Query runs a profile query for username and commits its outcome if no newer
// query was started in the meantime. A superseded query returns an error
// wrapping domain.ErrCanceled.
func (s *Session) Query(ctx context.Context, username string) (*domain.CompleteProfile, error) {
	return s.Begin(ctx, username)()
}

// Begin supersedes the in-flight query and reserves the next generation for
// username without fetching anything. The returned run performs the fetch
// and commits the outcome unless another query was begun after this one.
// Callers that run queries on their own goroutines call Begin in submission
// order so the newest submission always wins.
func (s *Session) Begin(ctx context.Context, username string) (run func() (*domain.CompleteProfile, error)) {
	username = strings.TrimSpace(username)
	queryCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.generation++
	token := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	log := s.logger.With().Str("user", username).Uint64("generation", token).Logger()

	return func() (*domain.CompleteProfile, error) {
		defer cancel()
		log.Debug().Msg("query started")

		result, err := s.profiler.Aggregate(queryCtx, username)

		s.mu.Lock()
		defer s.mu.Unlock()

		if token != s.generation {
			log.Debug().Msg("query superseded, discarding result")
			return nil, fmt.Errorf("query for %q superseded: %w", username, domain.ErrCanceled)
		}
		s.cancel = nil

		if domain.IsCanceled(err) {
			log.Debug().Msg("query canceled")
			return nil, err
		}

		s.state = State{Generation: token, Username: username, Profile: result, Err: err}
		if err != nil {
			log.Warn().Err(err).Msg("query failed")
		} else if s.recent != nil {
			if rerr := s.recent.Add(username); rerr != nil {
				log.Warn().Err(rerr).Msg("failed to save recent search")
			}
		}
		if s.onCommit != nil {
			s.onCommit(s.state)
		}
		return result, err
	}
}

// Cancel aborts the in-flight query, if any, without committing anything.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Current returns the last committed state.
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
