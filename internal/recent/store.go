// Package recent persists the list of recently searched usernames.
package recent

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	// StorageKey is the fixed key the list is stored under.
	StorageKey = "gitmetrics_recent_searches"
	// MaxEntries is how many usernames are remembered.
	MaxEntries = 5
)

// Store is an ordered, de-duplicated list of usernames, newest first.
// It is loaded once and written back on every mutation.
type Store struct {
	path   string
	logger zerolog.Logger

	mu      sync.Mutex
	entries []string
}

// DefaultPath returns the store location inside the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "gitmetrics", "recent_searches.json"), nil
}

// Load reads the store at path. A missing file yields an empty store; an
// unreadable one is logged and treated as empty.
func Load(path string, logger zerolog.Logger) (*Store, error) {
	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recent searches: %w", err)
	}

	var doc map[string][]string
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to load recent searches, starting empty")
		return s, nil
	}
	stored := doc[StorageKey]
	for i := len(stored) - 1; i >= 0; i-- {
		if name := strings.TrimSpace(stored[i]); name != "" {
			s.entries = push(s.entries, name)
		}
	}
	return s, nil
}

// List returns a copy of the remembered usernames, newest first.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.entries...)
}

// Add moves username to the front, dropping the oldest entry beyond MaxEntries.
func (s *Store) Add(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = push(s.entries, username)
	return s.saveLocked()
}

// Remove forgets username. Removing an unknown name is not an error.
func (s *Store) Remove(username string) error {
	username = strings.TrimSpace(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = without(s.entries, username)
	return s.saveLocked()
}

// Clear forgets every username.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	data, err := json.Marshal(map[string][]string{StorageKey: append([]string{}, s.entries...)})
	if err != nil {
		return fmt.Errorf("failed to encode recent searches: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create recent searches directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".recent-*")
	if err != nil {
		return fmt.Errorf("failed to write recent searches: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write recent searches: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write recent searches: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write recent searches: %w", err)
	}
	s.logger.Debug().Strs("entries", s.entries).Msg("saved recent searches")
	return nil
}

func push(entries []string, username string) []string {
	updated := append([]string{username}, without(entries, username)...)
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}
	return updated
}

func without(entries []string, username string) []string {
	kept := make([]string, 0, len(entries))
	for _, e := range entries {
		if e != username {
			kept = append(kept, e)
		}
	}
	return kept
}
