// Package memstore provides the in-memory implementation of TaskRepository.
//
// Entities live in one map per kind, keyed by identifier. Epics reference
// their subtasks by identifier only. Two indices sit beside the maps: the
// recency history (fed by reads) and the time index (fed by writes). All
// operations run under a single mutex, so an overlap check and the insert
// that follows it are never interleaved with another writer.
package memstore

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/history"
	"github.com/runoshun/task-tracker/internal/timeindex"
)

// Ensure Store implements domain.StateRepository.
var _ domain.StateRepository = (*Store)(nil)

// Store implements domain.StateRepository in memory.
// Fields are ordered to minimize memory padding.
type Store struct {
	tasks    map[int]*domain.Task
	epics    map[int]*domain.Epic
	subtasks map[int]*domain.Subtask
	history  *history.History
	schedule *timeindex.Index
	nextID   int
	mu       sync.Mutex
}

// New creates an empty Store. Identifiers start at 1.
func New() *Store {
	return &Store{
		tasks:    make(map[int]*domain.Task),
		epics:    make(map[int]*domain.Epic),
		subtasks: make(map[int]*domain.Subtask),
		history:  history.New(),
		schedule: timeindex.New(),
		nextID:   1,
	}
}

// === Reads ===

// Tasks returns all plain tasks ordered by ID.
func (s *Store) Tasks() ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedClones(s.tasks, (*domain.Task).Clone), nil
}

// Epics returns all epics ordered by ID.
func (s *Store) Epics() ([]*domain.Epic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedClones(s.epics, (*domain.Epic).Clone), nil
}

// Subtasks returns all subtasks ordered by ID.
func (s *Store) Subtasks() ([]*domain.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedClones(s.subtasks, (*domain.Subtask).Clone), nil
}

// GetTask retrieves a task and records the visit.
func (s *Store) GetTask(id int) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, notFound(domain.KindTask, id)
	}
	s.history.Visit(t)
	return t.Clone(), nil
}

// GetEpic retrieves an epic and records the visit.
func (s *Store) GetEpic(id int) (*domain.Epic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.epics[id]
	if !ok {
		return nil, notFound(domain.KindEpic, id)
	}
	s.history.Visit(e)
	return e.Clone(), nil
}

// GetSubtask retrieves a subtask and records the visit.
func (s *Store) GetSubtask(id int) (*domain.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.subtasks[id]
	if !ok {
		return nil, notFound(domain.KindSubtask, id)
	}
	s.history.Visit(st)
	return st.Clone(), nil
}

// Peek resolves any identifier without recording a visit.
func (s *Store) Peek(id int) (domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(id)
	if e == nil {
		return nil, fmt.Errorf("#%d: %w", id, domain.ErrNotFound)
	}
	return domain.CloneEntity(e), nil
}

// EpicSubtasks returns the subtasks owned by an epic, ordered by ID.
// An unknown epic yields an empty slice.
func (s *Store) EpicSubtasks(epicID int) ([]*domain.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.subtasksOf(epicID)
	out := make([]*domain.Subtask, 0, len(subs))
	for _, st := range subs {
		out = append(out, st.Clone())
	}
	return out, nil
}

// History returns the visited entities, oldest first.
func (s *Store) History() ([]domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := s.history.Snapshot()
	out := make([]domain.Entity, 0, len(refs))
	for _, ref := range refs {
		if e := s.resolve(ref); e != nil {
			out = append(out, domain.CloneEntity(e))
		}
	}
	return out, nil
}

// Prioritized returns scheduled entities ordered by (start, ID).
func (s *Store) Prioritized() ([]domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntities(s.schedule.All()), nil
}

// InRange returns scheduled entities that start at or after from and end
// at or before to.
func (s *Store) InRange(from, to time.Time) ([]domain.Entity, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidTimeRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntities(s.schedule.Range(from, to)), nil
}

// === Creates ===

// CreateTask stores a new task. Returns ErrTimeConflict if its interval
// overlaps a stored entity; nothing is stored in that case.
func (s *Store) CreateTask(task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, errors.New("task is nil")
	}
	c := task.Clone()
	if err := normalizeStatus(&c.Status); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID
	if s.schedule.HasConflict(c) {
		return nil, domain.ErrTimeConflict
	}
	s.nextID++
	s.tasks[c.ID] = c
	s.schedule.Insert(c)
	return c.Clone(), nil
}

// CreateEpic stores a new epic with an empty subtask set. Status and time
// fields supplied by the caller are ignored.
func (s *Store) CreateEpic(epic *domain.Epic) (*domain.Epic, error) {
	if epic == nil {
		return nil, errors.New("epic is nil")
	}
	c := domain.NewEpic(epic.Title, epic.Description)

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID
	s.nextID++
	s.epics[c.ID] = c
	return c.Clone(), nil
}

// CreateSubtask stores a new subtask under an existing epic and rolls the
// epic up. Returns ErrEpicNotFound or ErrTimeConflict without side effects.
func (s *Store) CreateSubtask(subtask *domain.Subtask) (*domain.Subtask, error) {
	if subtask == nil {
		return nil, errors.New("subtask is nil")
	}
	c := subtask.Clone()
	if err := normalizeStatus(&c.Status); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	epic, ok := s.epics[c.EpicID]
	if !ok {
		return nil, fmt.Errorf("epic #%d: %w", c.EpicID, domain.ErrEpicNotFound)
	}
	c.ID = s.nextID
	if s.schedule.HasConflict(c) {
		return nil, domain.ErrTimeConflict
	}
	s.nextID++
	s.subtasks[c.ID] = c
	s.schedule.Insert(c)
	epic.AddSubtask(c.ID)
	s.rollup(epic)
	return c.Clone(), nil
}

// === Updates ===

// UpdateTask replaces a stored task. On ErrTimeConflict the stored version
// stays in place.
func (s *Store) UpdateTask(task *domain.Task) error {
	if task == nil {
		return errors.New("task is nil")
	}
	c := task.Clone()
	if err := normalizeStatus(&c.Status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.tasks[c.ID]
	if !ok {
		return notFound(domain.KindTask, c.ID)
	}
	if !s.reschedule(old, c) {
		return domain.ErrTimeConflict
	}
	s.tasks[c.ID] = c
	return nil
}

// UpdateEpic changes the title and description of a stored epic.
// Status and time fields are always derived and never taken from the caller.
func (s *Store) UpdateEpic(epic *domain.Epic) error {
	if epic == nil {
		return errors.New("epic is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.epics[epic.ID]
	if !ok {
		return notFound(domain.KindEpic, epic.ID)
	}
	stored.Title = epic.Title
	stored.Description = epic.Description
	return nil
}

// UpdateSubtask replaces a stored subtask. When the owning epic changes, the
// subtask moves between both epics' sets before either is rolled up.
// Rollup only happens after the new version is committed.
func (s *Store) UpdateSubtask(subtask *domain.Subtask) error {
	if subtask == nil {
		return errors.New("subtask is nil")
	}
	c := subtask.Clone()
	if err := normalizeStatus(&c.Status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.subtasks[c.ID]
	if !ok {
		return notFound(domain.KindSubtask, c.ID)
	}
	if c.EpicID == c.ID {
		return fmt.Errorf("subtask #%d: %w", c.ID, domain.ErrSelfReference)
	}
	target, ok := s.epics[c.EpicID]
	if !ok {
		return fmt.Errorf("epic #%d: %w", c.EpicID, domain.ErrEpicNotFound)
	}
	if !s.reschedule(old, c) {
		return domain.ErrTimeConflict
	}

	s.subtasks[c.ID] = c
	if old.EpicID != c.EpicID {
		if prev, ok := s.epics[old.EpicID]; ok {
			prev.RemoveSubtask(c.ID)
			s.rollup(prev)
		}
		target.AddSubtask(c.ID)
	}
	s.rollup(target)
	return nil
}

// reschedule swaps old for next in the time index. If next conflicts with
// any remaining entry, old is restored and false is returned.
func (s *Store) reschedule(old, next domain.Entity) bool {
	s.schedule.Remove(old.Identity())
	if s.schedule.HasConflict(next) {
		s.schedule.Insert(old)
		return false
	}
	s.schedule.Insert(next)
	return true
}

// === Deletes ===

// DeleteTask removes a task from storage, the time index and history.
func (s *Store) DeleteTask(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return notFound(domain.KindTask, id)
	}
	s.schedule.Remove(id)
	s.history.Forget(id)
	delete(s.tasks, id)
	return nil
}

// DeleteEpic removes an epic after removing every subtask it owns.
func (s *Store) DeleteEpic(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	epic, ok := s.epics[id]
	if !ok {
		return notFound(domain.KindEpic, id)
	}
	for _, subID := range epic.SubtaskList() {
		s.dropSubtask(subID)
	}
	s.history.Forget(id)
	delete(s.epics, id)
	return nil
}

// DeleteSubtask removes a subtask and rolls its epic up.
func (s *Store) DeleteSubtask(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.subtasks[id]
	if !ok {
		return notFound(domain.KindSubtask, id)
	}
	s.dropSubtask(id)
	if epic, ok := s.epics[st.EpicID]; ok {
		epic.RemoveSubtask(id)
		s.rollup(epic)
	}
	return nil
}

// DeleteAllTasks removes every plain task.
func (s *Store) DeleteAllTasks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.tasks {
		s.schedule.Remove(id)
		s.history.Forget(id)
	}
	clear(s.tasks)
	return nil
}

// DeleteAllEpics removes every epic and, with them, every subtask.
func (s *Store) DeleteAllEpics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.subtasks {
		s.dropSubtask(id)
	}
	for id := range s.epics {
		s.history.Forget(id)
	}
	clear(s.epics)
	return nil
}

// DeleteAllSubtasks removes every subtask and resets every epic.
func (s *Store) DeleteAllSubtasks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.subtasks {
		s.dropSubtask(id)
	}
	for _, epic := range s.epics {
		epic.Reset()
	}
	return nil
}

// dropSubtask detaches a subtask from the time index and history, then
// removes it from storage. The caller detaches it from its epic.
func (s *Store) dropSubtask(id int) {
	s.schedule.Remove(id)
	s.history.Forget(id)
	delete(s.subtasks, id)
}

// === Helpers ===

// rollup recomputes an epic's derived fields from its current subtasks.
func (s *Store) rollup(epic *domain.Epic) {
	epic.Rollup(s.subtasksOf(epic.ID))
}

// subtasksOf returns the stored subtasks of an epic ordered by ID.
func (s *Store) subtasksOf(epicID int) []*domain.Subtask {
	epic, ok := s.epics[epicID]
	if !ok {
		return nil
	}
	subs := make([]*domain.Subtask, 0, len(epic.SubtaskIDs))
	for _, id := range epic.SubtaskList() {
		if st, ok := s.subtasks[id]; ok {
			subs = append(subs, st)
		}
	}
	return subs
}

// lookup finds an entity of any kind by ID.
func (s *Store) lookup(id int) domain.Entity {
	if t, ok := s.tasks[id]; ok {
		return t
	}
	if e, ok := s.epics[id]; ok {
		return e
	}
	if st, ok := s.subtasks[id]; ok {
		return st
	}
	return nil
}

// resolve finds the entity a reference points to, if it still exists.
func (s *Store) resolve(ref domain.Ref) domain.Entity {
	switch ref.Kind {
	case domain.KindTask:
		if t, ok := s.tasks[ref.ID]; ok {
			return t
		}
	case domain.KindEpic:
		if e, ok := s.epics[ref.ID]; ok {
			return e
		}
	case domain.KindSubtask:
		if st, ok := s.subtasks[ref.ID]; ok {
			return st
		}
	}
	return nil
}

func notFound(kind domain.Kind, id int) error {
	return fmt.Errorf("%s #%d: %w", kind.Display(), id, domain.ErrNotFound)
}

// normalizeStatus defaults an empty status to NEW and rejects unknown values.
func normalizeStatus(status *domain.Status) error {
	if *status == "" {
		*status = domain.StatusNew
		return nil
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *status)
	}
	return nil
}

func sortedClones[V any](m map[int]V, clone func(V) V) []V {
	out := make([]V, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		out = append(out, clone(m[id]))
	}
	return out
}

func cloneEntities(entities []domain.Entity) []domain.Entity {
	out := make([]domain.Entity, 0, len(entities))
	for _, e := range entities {
		out = append(out, domain.CloneEntity(e))
	}
	return out
}
