package memstore

import (
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
)

// Snapshot returns a deep copy of the current state, entities ordered by ID.
func (s *Store) Snapshot() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &domain.State{
		Tasks:    sortedClones(s.tasks, (*domain.Task).Clone),
		Epics:    sortedClones(s.epics, (*domain.Epic).Clone),
		Subtasks: sortedClones(s.subtasks, (*domain.Subtask).Clone),
		History:  s.history.Snapshot(),
		NextID:   s.nextID,
	}
}

// Restore replaces the whole state. The new maps and indices are built
// aside and swapped in only when the state is consistent, so a failed
// restore leaves the current state untouched.
//
// Epic subtask sets are rebuilt from the subtasks' epic references and every
// epic is rolled up. Subtasks whose epic is absent are dropped. The ID
// counter moves past the largest ID seen, or to state.NextID if larger.
func (s *Store) Restore(state *domain.State) error {
	fresh, err := build(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = fresh.tasks
	s.epics = fresh.epics
	s.subtasks = fresh.subtasks
	s.history = fresh.history
	s.schedule = fresh.schedule
	s.nextID = fresh.nextID
	return nil
}

// build creates a populated Store from state.
func build(state *domain.State) (*Store, error) {
	fresh := New()
	if state == nil {
		return fresh, nil
	}

	maxID := 0
	claim := func(kind domain.Kind, id int) error {
		if id <= 0 {
			return fmt.Errorf("%w: %s with non-positive id %d", domain.ErrMalformedRecord, kind, id)
		}
		if fresh.lookup(id) != nil {
			return fmt.Errorf("%w: duplicate id %d", domain.ErrMalformedRecord, id)
		}
		maxID = max(maxID, id)
		return nil
	}

	for _, e := range state.Epics {
		if err := claim(domain.KindEpic, e.ID); err != nil {
			return nil, err
		}
		c := domain.NewEpic(e.Title, e.Description)
		c.ID = e.ID
		fresh.epics[c.ID] = c
	}

	for _, t := range state.Tasks {
		if err := claim(domain.KindTask, t.ID); err != nil {
			return nil, err
		}
		c := t.Clone()
		if err := normalizeStatus(&c.Status); err != nil {
			return nil, fmt.Errorf("%w: task #%d: %w", domain.ErrMalformedRecord, c.ID, err)
		}
		fresh.tasks[c.ID] = c
		fresh.schedule.Insert(c)
	}

	for _, st := range state.Subtasks {
		epic, ok := fresh.epics[st.EpicID]
		if !ok {
			continue
		}
		if err := claim(domain.KindSubtask, st.ID); err != nil {
			return nil, err
		}
		c := st.Clone()
		if err := normalizeStatus(&c.Status); err != nil {
			return nil, fmt.Errorf("%w: subtask #%d: %w", domain.ErrMalformedRecord, c.ID, err)
		}
		fresh.subtasks[c.ID] = c
		fresh.schedule.Insert(c)
		epic.AddSubtask(c.ID)
	}

	for _, epic := range fresh.epics {
		fresh.rollup(epic)
	}

	for _, ref := range state.History {
		if fresh.resolve(ref) != nil {
			fresh.history.VisitRef(ref)
		}
	}

	fresh.nextID = max(state.NextID, maxID+1, 1)
	return fresh, nil
}
