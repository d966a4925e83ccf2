package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase/shared"
)

// EditSubtaskInput contains the parameters for editing a subtask.
// All fields except SubtaskID are optional. Only set fields will be updated.
type EditSubtaskInput struct {
	EpicID *int // Move to another epic (nil = no change)
	TaskFields
	SubtaskID int // Subtask ID to edit (required)
}

// EditSubtaskOutput contains the result of editing a subtask.
// Fields are ordered to minimize memory padding.
type EditSubtaskOutput struct {
	Subtask  *domain.Subtask // The updated subtask
	Epic     *domain.Epic    // The owning epic after rollup
	Previous *domain.Epic    // The previous epic after rollup (nil unless moved)
}

// EditSubtask is the use case for editing a subtask.
type EditSubtask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewEditSubtask creates a new EditSubtask use case.
func NewEditSubtask(tasks domain.TaskRepository, logger domain.Logger) *EditSubtask {
	return &EditSubtask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute edits a subtask with the given input.
// Returns domain.ErrInvalidReference when the target epic is unknown or is
// the subtask itself, and domain.ErrTimeConflict on an overlapping schedule.
func (uc *EditSubtask) Execute(_ context.Context, in EditSubtaskInput) (*EditSubtaskOutput, error) {
	if in.IsEmpty() && in.EpicID == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	e, err := shared.PeekAs(uc.tasks, in.SubtaskID, domain.KindSubtask)
	if err != nil {
		return nil, err
	}
	stored, ok := e.(*domain.Subtask)
	if !ok {
		return nil, fmt.Errorf("%w: #%d", domain.ErrInvalidKind, in.SubtaskID)
	}
	subtask := stored.Clone()

	if err := in.apply(&subtask.Task); err != nil {
		return nil, err
	}
	if in.EpicID != nil {
		subtask.EpicID = *in.EpicID
	}

	if err := uc.tasks.UpdateSubtask(subtask); err != nil {
		return nil, fmt.Errorf("update subtask: %w", err)
	}

	out := &EditSubtaskOutput{Subtask: subtask, Epic: uc.peekEpic(subtask.EpicID)}
	if stored.EpicID != subtask.EpicID {
		out.Previous = uc.peekEpic(stored.EpicID)
		if uc.logger != nil {
			uc.logger.Info(subtask.ID, "subtask", fmt.Sprintf("moved: epic #%d -> #%d", stored.EpicID, subtask.EpicID))
		}
	}

	if uc.logger != nil {
		uc.logger.Info(subtask.ID, "subtask",
			fmt.Sprintf("edited: %q [%s] (%s)", subtask.Title, subtask.Status, describeSchedule(&subtask.Task)))
	}

	return out, nil
}

func (uc *EditSubtask) peekEpic(id int) *domain.Epic {
	e, err := uc.tasks.Peek(id)
	if err != nil {
		return nil
	}
	epic, _ := e.(*domain.Epic)
	return epic
}
