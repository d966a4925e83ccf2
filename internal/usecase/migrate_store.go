package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/runoshun/task-tracker/internal/domain"
)

// MigrateStoreInput contains parameters for MigrateStore.
type MigrateStoreInput struct {
	// Force overwrites a destination that already holds different data.
	Force bool
}

// MigrateStoreOutput contains migration results.
// Fields are ordered to minimize memory padding.
type MigrateStoreOutput struct {
	Skipped  []string // Source records dropped while loading
	Tasks    int
	Epics    int
	Subtasks int
	// Unchanged is true when the destination already held the same entities.
	Unchanged bool
}

// MigrateStore copies the full state from one store backend to another.
type MigrateStore struct {
	source   domain.StateStore
	dest     domain.StateStore
	destInit domain.StoreInitializer
	logger   domain.Logger
}

// NewMigrateStore creates a new MigrateStore use case.
func NewMigrateStore(source, dest domain.StateStore, destInit domain.StoreInitializer, logger domain.Logger) *MigrateStore {
	return &MigrateStore{source: source, dest: dest, destInit: destInit, logger: logger}
}

// Execute copies every entity and the history to the destination.
// A destination holding identical entities is left alone; one holding
// different entities fails with domain.ErrMigrationConflict unless forced.
func (uc *MigrateStore) Execute(_ context.Context, in MigrateStoreInput) (*MigrateStoreOutput, error) {
	if uc.destInit == nil {
		return nil, errors.New("destination store initializer is nil")
	}
	if uc.source == nil || uc.dest == nil {
		return nil, errors.New("source or destination store is nil")
	}

	state, err := uc.source.Load()
	if err != nil {
		return nil, fmt.Errorf("load source store: %w", err)
	}

	out := &MigrateStoreOutput{
		Skipped:  state.Skipped,
		Tasks:    len(state.Tasks),
		Epics:    len(state.Epics),
		Subtasks: len(state.Subtasks),
	}

	if uc.destInit.IsInitialized() {
		existing, err := uc.dest.Load()
		if err != nil {
			return nil, fmt.Errorf("load destination store: %w", err)
		}
		if slices.Equal(entityKeys(state), entityKeys(existing)) {
			out.Unchanged = true
			return out, nil
		}
		if !isEmptyState(existing) && !in.Force {
			return nil, fmt.Errorf("%w (%d entities; use --force to overwrite)",
				domain.ErrMigrationConflict, len(entityKeys(existing)))
		}
	} else if err := uc.destInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize destination store: %w", err)
	}

	copied := *state
	copied.Skipped = nil
	if err := uc.dest.Save(&copied); err != nil {
		return nil, fmt.Errorf("save destination store: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(0, "store", fmt.Sprintf("migrated: %d tasks, %d epics, %d subtasks", out.Tasks, out.Epics, out.Subtasks))
	}
	return out, nil
}

func isEmptyState(s *domain.State) bool {
	return len(s.Tasks) == 0 && len(s.Epics) == 0 && len(s.Subtasks) == 0
}

// entityKeys flattens the stored fields of every entity into sorted comparable keys.
// Derived epic fields are left out since every backend recomputes them.
func entityKeys(s *domain.State) []string {
	keys := make([]string, 0, len(s.Tasks)+len(s.Epics)+len(s.Subtasks))
	for _, t := range s.Tasks {
		keys = append(keys, taskKey(domain.KindTask, t, 0))
	}
	for _, e := range s.Epics {
		keys = append(keys, fmt.Sprintf("%s|%d|%s|%s", domain.KindEpic, e.ID, e.Title, e.Description))
	}
	for _, st := range s.Subtasks {
		keys = append(keys, taskKey(domain.KindSubtask, &st.Task, st.EpicID))
	}
	slices.Sort(keys)
	return keys
}

func taskKey(kind domain.Kind, t *domain.Task, epicID int) string {
	start := "-"
	if t.Start != nil {
		start = fmt.Sprint(t.Start.Unix())
	}
	duration := "-"
	if t.Duration != nil {
		duration = t.Duration.String()
	}
	return fmt.Sprintf("%s|%d|%s|%s|%s|%s|%s|%d", kind, t.ID, t.Title, t.Description, t.Status, start, duration, epicID)
}
