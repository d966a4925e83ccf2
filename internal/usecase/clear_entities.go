package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
)

// ClearEntitiesInput contains the parameters for bulk deletion.
type ClearEntitiesInput struct {
	Kind domain.Kind // Kind to clear (empty = everything)
}

// ClearEntitiesOutput contains the number of removed entities per kind.
type ClearEntitiesOutput struct {
	Tasks    int
	Epics    int
	Subtasks int
}

// Total returns the number of removed entities.
func (o *ClearEntitiesOutput) Total() int {
	return o.Tasks + o.Epics + o.Subtasks
}

// ClearEntities is the use case for deleting all entities of a kind.
// Clearing epics also clears every subtask. Clearing subtasks leaves epics
// in place with an empty subtask set.
type ClearEntities struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewClearEntities creates a new ClearEntities use case.
func NewClearEntities(tasks domain.TaskRepository, logger domain.Logger) *ClearEntities {
	return &ClearEntities{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute deletes every entity of the requested kind.
func (uc *ClearEntities) Execute(_ context.Context, in ClearEntitiesInput) (*ClearEntitiesOutput, error) {
	if in.Kind != "" && !in.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, in.Kind)
	}

	out := &ClearEntitiesOutput{}
	clearTasks := in.Kind == "" || in.Kind == domain.KindTask
	clearEpics := in.Kind == "" || in.Kind == domain.KindEpic
	clearSubtasks := clearEpics || in.Kind == domain.KindSubtask

	if clearTasks {
		tasks, err := uc.tasks.Tasks()
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		if err := uc.tasks.DeleteAllTasks(); err != nil {
			return nil, fmt.Errorf("delete tasks: %w", err)
		}
		out.Tasks = len(tasks)
	}

	if clearSubtasks {
		subtasks, err := uc.tasks.Subtasks()
		if err != nil {
			return nil, fmt.Errorf("list subtasks: %w", err)
		}
		out.Subtasks = len(subtasks)
	}

	if clearEpics {
		epics, err := uc.tasks.Epics()
		if err != nil {
			return nil, fmt.Errorf("list epics: %w", err)
		}
		if err := uc.tasks.DeleteAllEpics(); err != nil {
			return nil, fmt.Errorf("delete epics: %w", err)
		}
		out.Epics = len(epics)
	} else if clearSubtasks {
		if err := uc.tasks.DeleteAllSubtasks(); err != nil {
			return nil, fmt.Errorf("delete subtasks: %w", err)
		}
	}

	if uc.logger != nil {
		scope := "all entities"
		if in.Kind != "" {
			scope = "all " + in.Kind.Display() + "s"
		}
		uc.logger.Info(0, "store", fmt.Sprintf("cleared %s: %d task(s), %d epic(s), %d subtask(s)",
			scope, out.Tasks, out.Epics, out.Subtasks))
	}

	return out, nil
}
