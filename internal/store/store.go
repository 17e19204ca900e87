package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/unon-ymous/Pay-page/internal/metrics"
)

// Store owns the in-memory Record and its backing file.
type Store struct {
	path  string
	clock clockwork.Clock

	mu     sync.RWMutex
	record Record
}

func New(path string, clock clockwork.Clock) *Store {
	return &Store{
		path:   path,
		clock:  clock,
		record: DefaultRecord(),
	}
}

// Load reads the backing file into memory. It never fails: a missing file
// seeds the defaults (and persists them immediately), a malformed file falls
// back to the defaults with an operator warning. Callers always get a usable
// store.
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.Info("Config file missing, writing defaults", "path", s.path)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.record = DefaultRecord()
		if err := s.persistLocked(); err != nil {
			slog.Warn("Failed to persist default config", "path", s.path, "error", err)
		}
		return
	}
	if err != nil {
		slog.Warn("Config file unreadable, using defaults", "path", s.path, "error", err)
		return
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Warn("Config file malformed, using defaults", "path", s.path, "error", err)
		return
	}
	if rec.CarouselImages == nil {
		rec.CarouselImages = []string{}
	}
	if rec.InstructionLines == nil {
		rec.InstructionLines = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = rec
}

// Get returns a snapshot copy of the current record. Never touches disk.
func (s *Store) Get() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Clone()
}

// SetIdentifier trims raw, recomputes the validity flag, stores both as a
// pair and persists the whole record. The returned bool is the computed
// validity. This is the only path that writes Identifier, so the flag can
// never diverge from the stored text.
func (s *Store) SetIdentifier(raw string) (bool, error) {
	trimmed := strings.TrimSpace(raw)
	valid := ValidIdentifier(trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Identifier = trimmed
	s.record.IdentifierValid = valid
	s.record.UpdatedAt = s.clock.Now().UTC()

	if err := s.persistLocked(); err != nil {
		return valid, fmt.Errorf("failed to persist config record: %w", err)
	}
	return valid, nil
}

// SetDisplayName stores a new display name and persists the record.
func (s *Store) SetDisplayName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.DisplayName = strings.TrimSpace(name)
	s.record.UpdatedAt = s.clock.Now().UTC()

	if err := s.persistLocked(); err != nil {
		return fmt.Errorf("failed to persist config record: %w", err)
	}
	return nil
}

// persistLocked serializes the full record and replaces the backing file via
// write-temp-then-rename. Callers must hold s.mu.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.record, "", "  ")
	if err != nil {
		metrics.StoreSavesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("marshal record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		metrics.StoreSavesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		metrics.StoreSavesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		metrics.StoreSavesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("replace config file: %w", err)
	}

	metrics.StoreSavesTotal.WithLabelValues("ok").Inc()
	return nil
}
