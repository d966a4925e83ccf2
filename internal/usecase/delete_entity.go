package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase/shared"
)

// DeleteEntityInput contains the parameters for deleting an entity.
type DeleteEntityInput struct {
	Kind domain.Kind // Expected kind (optional, empty = any)
	ID   int         // Entity ID (required)
}

// DeleteEntityOutput contains the result of deleting an entity.
// Fields are ordered to minimize memory padding.
type DeleteEntityOutput struct {
	Cascaded []int       // Subtask IDs removed with an epic
	Kind     domain.Kind // Kind of the deleted entity
	ID       int         // Deleted entity ID
}

// DeleteEntity is the use case for deleting a task, epic or subtask.
// Deleting an epic also deletes its subtasks.
type DeleteEntity struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewDeleteEntity creates a new DeleteEntity use case.
func NewDeleteEntity(tasks domain.TaskRepository, logger domain.Logger) *DeleteEntity {
	return &DeleteEntity{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute deletes the entity with the given ID.
func (uc *DeleteEntity) Execute(_ context.Context, in DeleteEntityInput) (*DeleteEntityOutput, error) {
	var (
		entity domain.Entity
		err    error
	)
	if in.Kind != "" {
		entity, err = shared.PeekAs(uc.tasks, in.ID, in.Kind)
	} else {
		entity, err = uc.tasks.Peek(in.ID)
	}
	if err != nil {
		return nil, err
	}

	out := &DeleteEntityOutput{Kind: entity.Kind(), ID: in.ID}
	switch v := entity.(type) {
	case *domain.Task:
		err = uc.tasks.DeleteTask(in.ID)
	case *domain.Epic:
		out.Cascaded = v.SubtaskList()
		err = uc.tasks.DeleteEpic(in.ID)
	case *domain.Subtask:
		err = uc.tasks.DeleteSubtask(in.ID)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrInvalidKind, entity.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", entity.Kind().Display(), err)
	}

	if uc.logger != nil {
		msg := fmt.Sprintf("deleted: %q", entity.Base().Title)
		if len(out.Cascaded) > 0 {
			msg += fmt.Sprintf(" with %d subtask(s) %v", len(out.Cascaded), out.Cascaded)
		}
		uc.logger.Info(in.ID, entity.Kind().Display(), msg)
	}

	return out, nil
}
