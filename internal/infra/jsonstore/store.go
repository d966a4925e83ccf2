// Package jsonstore persists the repository state as a single JSON document.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/gofrs/flock"

	"github.com/runoshun/task-tracker/internal/domain"
)

// storeData represents the JSON file structure.
// Entity maps are keyed by ID.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Tasks    map[string]*domain.Task    `json:"tasks"`
	Epics    map[string]*domain.Epic    `json:"epics"`
	Subtasks map[string]*domain.Subtask `json:"subtasks"`
	History  []domain.Ref               `json:"history"`
	Meta     meta                       `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	NextID int `json:"nextID"`
}

// Ensure Store implements domain.StateStore and domain.StoreInitializer.
var (
	_ domain.StateStore       = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Store reads and rewrites a JSON file.
type Store struct {
	flk  *flock.Flock
	path string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		flk:  flock.New(path + ".lock"),
		path: path,
	}
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	if s.IsInitialized() {
		return nil
	}
	return s.Save(&domain.State{NextID: 1})
}

// Load reads the full state, including history and the ID counter.
func (s *Store) Load() (*domain.State, error) {
	if !s.IsInitialized() {
		return nil, domain.ErrNotInitialized
	}
	if err := s.acquireLock(); err != nil {
		return nil, err
	}
	defer s.releaseLock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return toState(data)
}

// Save rewrites the whole document.
func (s *Store) Save(state *domain.State) error {
	if err := s.acquireLock(); err != nil {
		return err
	}
	defer s.releaseLock()

	return s.write(fromState(state))
}

func (s *Store) acquireLock() error {
	// Ensure lock file directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("%w: create lock directory: %w", domain.ErrPersistence, err)
	}
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("%w: acquire lock: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *Store) releaseLock() {
	_ = s.flk.Unlock()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("%w: read store file: %w", domain.ErrPersistence, err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("%w: parse store file: %w", domain.ErrMalformedRecord, err)
	}
	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal store data: %w", domain.ErrPersistence, err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("%w: write temp file: %w", domain.ErrPersistence, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("%w: rename temp file: %w", domain.ErrPersistence, err)
	}

	return nil
}

func fromState(state *domain.State) *storeData {
	data := &storeData{
		Tasks:    make(map[string]*domain.Task),
		Epics:    make(map[string]*domain.Epic),
		Subtasks: make(map[string]*domain.Subtask),
		History:  []domain.Ref{},
		Meta:     meta{NextID: 1},
	}
	if state == nil {
		return data
	}
	for _, t := range state.Tasks {
		data.Tasks[strconv.Itoa(t.ID)] = t
	}
	for _, e := range state.Epics {
		data.Epics[strconv.Itoa(e.ID)] = e
	}
	for _, st := range state.Subtasks {
		data.Subtasks[strconv.Itoa(st.ID)] = st
	}
	data.History = append(data.History, state.History...)
	data.Meta.NextID = max(state.NextID, 1)
	return data
}

// toState converts the document into a state ordered by ID.
// The map key is authoritative for the entity ID.
func toState(data *storeData) (*domain.State, error) {
	state := &domain.State{
		History: data.History,
		NextID:  data.Meta.NextID,
	}

	var err error
	if state.Tasks, err = collect(data.Tasks, func(t *domain.Task, id int) { t.ID = id }); err != nil {
		return nil, err
	}
	if state.Epics, err = collect(data.Epics, func(e *domain.Epic, id int) { e.ID = id }); err != nil {
		return nil, err
	}
	if state.Subtasks, err = collect(data.Subtasks, func(st *domain.Subtask, id int) { st.ID = id }); err != nil {
		return nil, err
	}
	return state, nil
}

func collect[T any](m map[string]*T, setID func(*T, int)) ([]*T, error) {
	byID := make(map[int]*T, len(m))
	for key, v := range m {
		if v == nil {
			continue
		}
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q", domain.ErrMalformedRecord, key)
		}
		setID(v, id)
		byID[id] = v
	}
	out := make([]*T, 0, len(byID))
	for _, id := range slices.Sorted(maps.Keys(byID)) {
		out = append(out, byID[id])
	}
	return out, nil
}
