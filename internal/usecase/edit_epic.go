package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase/shared"
)

// EditEpicInput contains the parameters for editing an epic.
// Status and schedule are derived from subtasks and cannot be edited.
type EditEpicInput struct {
	Title       *string // New title (nil = no change)
	Description *string // New description (nil = no change)
	EpicID      int     // Epic ID to edit (required)
}

// EditEpicOutput contains the result of editing an epic.
type EditEpicOutput struct {
	Epic *domain.Epic // The updated epic
}

// EditEpic is the use case for editing an epic's title and description.
type EditEpic struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewEditEpic creates a new EditEpic use case.
func NewEditEpic(tasks domain.TaskRepository, logger domain.Logger) *EditEpic {
	return &EditEpic{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute edits an epic with the given input.
func (uc *EditEpic) Execute(_ context.Context, in EditEpicInput) (*EditEpicOutput, error) {
	if in.Title == nil && in.Description == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if in.Title != nil && *in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}

	e, err := shared.PeekAs(uc.tasks, in.EpicID, domain.KindEpic)
	if err != nil {
		return nil, err
	}
	epic, ok := e.(*domain.Epic)
	if !ok {
		return nil, fmt.Errorf("%w: #%d", domain.ErrInvalidKind, in.EpicID)
	}

	if in.Title != nil {
		epic.Title = *in.Title
	}
	if in.Description != nil {
		epic.Description = *in.Description
	}

	if err := uc.tasks.UpdateEpic(epic); err != nil {
		return nil, fmt.Errorf("update epic: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(epic.ID, "epic", fmt.Sprintf("edited: %q", epic.Title))
	}

	return &EditEpicOutput{Epic: epic}, nil
}
