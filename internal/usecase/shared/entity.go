// Package shared provides shared utilities for use cases.
package shared

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/runoshun/task-tracker/internal/domain"
)

// GetEntity retrieves an entity of any kind by ID and records the visit.
// This centralizes the common pattern of:
//
//	e, err := repo.Peek(id)
//	if err != nil { return nil, err }
//	switch e.Kind() { case domain.KindTask: repo.GetTask(id) ... }
func GetEntity(repo domain.TaskRepository, id int) (domain.Entity, error) {
	peeked, err := repo.Peek(id)
	if err != nil {
		return nil, err
	}

	switch peeked.Kind() {
	case domain.KindTask:
		t, err := repo.GetTask(id)
		if err != nil {
			return nil, err
		}
		return t, nil
	case domain.KindEpic:
		e, err := repo.GetEpic(id)
		if err != nil {
			return nil, err
		}
		return e, nil
	case domain.KindSubtask:
		s, err := repo.GetSubtask(id)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, peeked.Kind())
	}
}

// PeekAs resolves an entity without recording a visit and checks its kind.
func PeekAs(repo domain.TaskRepository, id int, kind domain.Kind) (domain.Entity, error) {
	e, err := repo.Peek(id)
	if err != nil {
		return nil, err
	}
	if e.Kind() != kind {
		return nil, fmt.Errorf("%w: #%d is %s, want %s",
			domain.ErrInvalidKind, id, e.Kind().Display(), kind.Display())
	}
	return e, nil
}

// AllEntities returns every task, epic and subtask ordered by ID.
func AllEntities(repo domain.TaskRepository) ([]domain.Entity, error) {
	tasks, err := repo.Tasks()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	epics, err := repo.Epics()
	if err != nil {
		return nil, fmt.Errorf("list epics: %w", err)
	}
	subtasks, err := repo.Subtasks()
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}

	all := make([]domain.Entity, 0, len(tasks)+len(epics)+len(subtasks))
	for _, t := range tasks {
		all = append(all, t)
	}
	for _, e := range epics {
		all = append(all, e)
	}
	for _, s := range subtasks {
		all = append(all, s)
	}
	slices.SortFunc(all, func(a, b domain.Entity) int {
		return cmp.Compare(a.Identity(), b.Identity())
	})
	return all, nil
}
