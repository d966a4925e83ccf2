// Package csvstore persists the repository state as a CSV record stream.
//
// The history and the ID counter live in a YAML sidecar next to the record
// file (<path>.meta.yaml). A missing sidecar is not an error; the counter is
// then derived from the records.
package csvstore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/runoshun/task-tracker/internal/domain"
)

// Ensure Store implements domain.StateStore and domain.StoreInitializer.
var (
	_ domain.StateStore       = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Store reads and rewrites a single CSV file.
type Store struct {
	flk  *flock.Flock
	path string
}

// New creates a Store for the given file path.
// The file is created by Initialize or the first Save.
func New(path string) *Store {
	return &Store{
		flk:  flock.New(path + ".lock"),
		path: path,
	}
}

// Path returns the record file path.
func (s *Store) Path() string {
	return s.path
}

// MetaPath returns the sidecar path holding the history and ID counter.
func (s *Store) MetaPath() string {
	return s.path + ".meta.yaml"
}

// IsInitialized reports whether the record file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize writes a stream containing only the header if the file
// does not exist yet.
func (s *Store) Initialize() error {
	if s.IsInitialized() {
		return nil
	}
	return s.Save(&domain.State{})
}

// Load reads the full state. Records dropped by the decoder are listed in
// State.Skipped.
func (s *Store) Load() (*domain.State, error) {
	if !s.IsInitialized() {
		return nil, domain.ErrNotInitialized
	}
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer func() { _ = s.flk.Unlock() }()

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrPersistence, s.path, err)
	}

	state, err := NewDecoder(bytes.NewReader(content)).Decode()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}

	metaData, err := os.ReadFile(s.MetaPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrPersistence, s.MetaPath(), err)
	}
	m, err := DecodeMeta(metaData)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.MetaPath(), err)
	}
	m.Apply(state)
	return state, nil
}

// Save rewrites the record file and the sidecar. Each is written to a temp
// file and renamed into place. The sidecar goes first: a newer counter next
// to older records never hands out a used ID, and stale history refs are
// dropped on load.
func (s *Store) Save(state *domain.State) error {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(state); err != nil {
		return fmt.Errorf("%w: encode records: %w", domain.ErrPersistence, err)
	}
	metaData, err := EncodeMeta(state)
	if err != nil {
		return err
	}

	if err := s.lock(); err != nil {
		return err
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := writeFileAtomic(s.MetaPath(), metaData); err != nil {
		return err
	}
	return writeFileAtomic(s.path, buf.Bytes())
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("%w: write temp file: %w", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename temp file: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *Store) lock() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("%w: create directory: %w", domain.ErrPersistence, err)
	}
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("%w: acquire lock: %w", domain.ErrPersistence, err)
	}
	return nil
}
