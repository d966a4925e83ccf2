// Package persisted provides a file-backed decorator over an in-memory
// repository. The full state is loaded on first use and rewritten after
// every successful change.
package persisted

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/task-tracker/internal/domain"
)

// Ensure Repository implements domain.StateRepository.
var _ domain.StateRepository = (*Repository)(nil)

// Repository decorates a domain.StateRepository with a domain.StateStore.
//
// Reads that record history (GetTask, GetEpic, GetSubtask) count as changes,
// so the recency list survives restarts on backends that keep it.
// Fields are ordered to minimize memory padding.
type Repository struct {
	inner  domain.StateRepository
	store  domain.StateStore
	logger domain.Logger
	mu     sync.Mutex
	loaded bool
}

// New creates a Repository. Nothing is loaded until the first call.
func New(inner domain.StateRepository, store domain.StateStore, logger domain.Logger) *Repository {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Repository{
		inner:  inner,
		store:  store,
		logger: logger,
	}
}

// Reload discards the in-memory state and loads it again from the store.
// On error the current in-memory state is kept.
func (r *Repository) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	return r.ensureLoaded()
}

// ensureLoaded loads and restores the stored state once. A failed load
// leaves the inner repository untouched and is retried on the next call.
// Must be called with r.mu held.
func (r *Repository) ensureLoaded() error {
	if r.loaded {
		return nil
	}
	state, err := r.store.Load()
	if err != nil {
		if !errors.Is(err, domain.ErrNotInitialized) {
			r.logger.Error(0, "store", fmt.Sprintf("load failed: %v", err))
		}
		return fmt.Errorf("load state: %w", err)
	}
	for _, skipped := range state.Skipped {
		r.logger.Warn(0, "store", "skipped record: "+skipped)
	}
	if err := r.inner.Restore(state); err != nil {
		r.logger.Error(0, "store", fmt.Sprintf("restore failed: %v", err))
		return fmt.Errorf("restore state: %w", err)
	}
	r.loaded = true
	return nil
}

// save writes the full snapshot. Must be called with r.mu held.
func (r *Repository) save() error {
	if err := r.store.Save(r.inner.Snapshot()); err != nil {
		r.logger.Error(0, "store", fmt.Sprintf("state not durably persisted: %v", err))
		if errors.Is(err, domain.ErrPersistence) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// query runs fn against the loaded state.
func query[T any](r *Repository, fn func() (T, error)) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		var zero T
		return zero, err
	}
	return fn()
}

// mutate runs fn against the loaded state and saves when it succeeds.
// A failed save rolls the in-memory state back to what it was before fn.
func mutate[T any](r *Repository, fn func() (T, error)) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	if err := r.ensureLoaded(); err != nil {
		return zero, err
	}
	prev := r.inner.Snapshot()
	v, err := fn()
	if err != nil {
		return zero, err
	}
	if err := r.save(); err != nil {
		r.rollback(prev)
		return zero, err
	}
	return v, nil
}

// rollback puts prev back after a failed save. Must be called with r.mu held.
func (r *Repository) rollback(prev *domain.State) {
	if err := r.inner.Restore(prev); err != nil {
		r.logger.Error(0, "store", fmt.Sprintf("rollback failed: %v", err))
		r.loaded = false
	}
}

func mutateErr(r *Repository, fn func() error) error {
	_, err := mutate(r, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// === Reads ===

func (r *Repository) Tasks() ([]*domain.Task, error) {
	return query(r, r.inner.Tasks)
}

func (r *Repository) Epics() ([]*domain.Epic, error) {
	return query(r, r.inner.Epics)
}

func (r *Repository) Subtasks() ([]*domain.Subtask, error) {
	return query(r, r.inner.Subtasks)
}

func (r *Repository) Peek(id int) (domain.Entity, error) {
	return query(r, func() (domain.Entity, error) { return r.inner.Peek(id) })
}

func (r *Repository) EpicSubtasks(epicID int) ([]*domain.Subtask, error) {
	return query(r, func() ([]*domain.Subtask, error) { return r.inner.EpicSubtasks(epicID) })
}

func (r *Repository) History() ([]domain.Entity, error) {
	return query(r, r.inner.History)
}

func (r *Repository) Prioritized() ([]domain.Entity, error) {
	return query(r, r.inner.Prioritized)
}

func (r *Repository) InRange(from, to time.Time) ([]domain.Entity, error) {
	return query(r, func() ([]domain.Entity, error) { return r.inner.InRange(from, to) })
}

// Snapshot returns the current in-memory state. A failed load yields an
// empty state.
func (r *Repository) Snapshot() *domain.State {
	state, err := query(r, func() (*domain.State, error) { return r.inner.Snapshot(), nil })
	if err != nil {
		return &domain.State{}
	}
	return state
}

// === Visits ===

func (r *Repository) GetTask(id int) (*domain.Task, error) {
	return mutate(r, func() (*domain.Task, error) { return r.inner.GetTask(id) })
}

func (r *Repository) GetEpic(id int) (*domain.Epic, error) {
	return mutate(r, func() (*domain.Epic, error) { return r.inner.GetEpic(id) })
}

func (r *Repository) GetSubtask(id int) (*domain.Subtask, error) {
	return mutate(r, func() (*domain.Subtask, error) { return r.inner.GetSubtask(id) })
}

// === Writes ===

func (r *Repository) CreateTask(task *domain.Task) (*domain.Task, error) {
	return mutate(r, func() (*domain.Task, error) { return r.inner.CreateTask(task) })
}

func (r *Repository) CreateEpic(epic *domain.Epic) (*domain.Epic, error) {
	return mutate(r, func() (*domain.Epic, error) { return r.inner.CreateEpic(epic) })
}

func (r *Repository) CreateSubtask(subtask *domain.Subtask) (*domain.Subtask, error) {
	return mutate(r, func() (*domain.Subtask, error) { return r.inner.CreateSubtask(subtask) })
}

func (r *Repository) UpdateTask(task *domain.Task) error {
	return mutateErr(r, func() error { return r.inner.UpdateTask(task) })
}

func (r *Repository) UpdateEpic(epic *domain.Epic) error {
	return mutateErr(r, func() error { return r.inner.UpdateEpic(epic) })
}

func (r *Repository) UpdateSubtask(subtask *domain.Subtask) error {
	return mutateErr(r, func() error { return r.inner.UpdateSubtask(subtask) })
}

func (r *Repository) DeleteTask(id int) error {
	return mutateErr(r, func() error { return r.inner.DeleteTask(id) })
}

func (r *Repository) DeleteEpic(id int) error {
	return mutateErr(r, func() error { return r.inner.DeleteEpic(id) })
}

func (r *Repository) DeleteSubtask(id int) error {
	return mutateErr(r, func() error { return r.inner.DeleteSubtask(id) })
}

func (r *Repository) DeleteAllTasks() error {
	return mutateErr(r, r.inner.DeleteAllTasks)
}

func (r *Repository) DeleteAllEpics() error {
	return mutateErr(r, r.inner.DeleteAllEpics)
}

func (r *Repository) DeleteAllSubtasks() error {
	return mutateErr(r, r.inner.DeleteAllSubtasks)
}

// Restore replaces the state and saves it. The load step is skipped since
// the stored state is about to be overwritten. A failed save undoes the
// replacement.
func (r *Repository) Restore(state *domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var prev *domain.State
	if r.loaded {
		prev = r.inner.Snapshot()
	}
	if err := r.inner.Restore(state); err != nil {
		return err
	}
	if err := r.save(); err != nil {
		if prev != nil {
			r.rollback(prev)
		} else {
			// Nothing was loaded before; the next call loads from the store again.
			r.loaded = false
		}
		return err
	}
	r.loaded = true
	return nil
}
