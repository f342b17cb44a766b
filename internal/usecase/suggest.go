package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/naka-gawa/gitmetrics/internal/domain"
	"github.com/naka-gawa/gitmetrics/internal/gateway"
)

const (
	// DefaultSuggestDelay is how long input must stay unchanged before a search is sent.
	DefaultSuggestDelay = 300 * time.Millisecond
	// MinSuggestLength is the shortest trimmed input that triggers a search.
	MinSuggestLength = 2
)

// SuggestFunc receives the suggestions for query. An empty slice clears the list.
type SuggestFunc func(query string, suggestions []domain.UserSuggestion)

// Suggester debounces keystrokes into user searches. Each Update stops the
// pending timer and cancels the in-flight search, so only the newest input
// ever delivers results.
type Suggester struct {
	searcher gateway.UserSearcher
	deliver  SuggestFunc
	logger   zerolog.Logger
	delay    time.Duration

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	closed     bool
}

// SuggesterOption customizes a Suggester.
type SuggesterOption func(*Suggester)

// WithDebounce overrides DefaultSuggestDelay.
func WithDebounce(d time.Duration) SuggesterOption {
	return func(s *Suggester) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// NewSuggester creates a Suggester that reports to deliver.
// deliver runs with the suggester lock held and must not call Update or Close.
func NewSuggester(searcher gateway.UserSearcher, deliver SuggestFunc, logger zerolog.Logger, opts ...SuggesterOption) *Suggester {
	s := &Suggester{
		searcher: searcher,
		deliver:  deliver,
		logger:   logger,
		delay:    DefaultSuggestDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update records new input. Inputs shorter than MinSuggestLength clear the
// suggestions right away without a request.
func (s *Suggester) Update(ctx context.Context, input string) {
	query := strings.TrimSpace(input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.generation++
	token := s.generation
	s.stopLocked()

	if utf8.RuneCountInString(query) < MinSuggestLength {
		s.deliver(query, []domain.UserSuggestion{})
		return
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.search(ctx, token, query)
	})
}

// Close stops the pending timer and cancels the in-flight search. Later updates are ignored.
func (s *Suggester) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
	s.stopLocked()
}

func (s *Suggester) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Suggester) search(ctx context.Context, token uint64, query string) {
	s.mu.Lock()
	if token != s.generation {
		s.mu.Unlock()
		return
	}
	reqCtx, cancel := context.WithCancel(ctx)
	s.timer = nil
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	suggestions, err := s.searcher.SearchUsers(reqCtx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.generation {
		s.logger.Debug().Str("query", query).Msg("discarding stale suggestions")
		return
	}
	s.cancel = nil

	if err != nil {
		if domain.IsCanceled(err) || errors.Is(err, context.Canceled) {
			s.logger.Debug().Str("query", query).Msg("suggestion lookup canceled")
			return
		}
		s.logger.Warn().Err(err).Str("query", query).Msg("failed to fetch suggestions")
		suggestions = []domain.UserSuggestion{}
	}
	s.deliver(query, suggestions)
}
