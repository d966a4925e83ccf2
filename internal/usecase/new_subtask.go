package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/task-tracker/internal/domain"
)

// NewSubtaskInput contains the parameters for creating a new subtask.
// Fields are ordered to minimize memory padding.
type NewSubtaskInput struct {
	Start       *time.Time     // Scheduled start (optional)
	Duration    *time.Duration // Planned duration (optional)
	Title       string         // Subtask title (required)
	Description string         // Subtask description (optional)
	Status      string         // Initial status (optional, empty = NEW)
	EpicID      int            // Owning epic (required)
}

// NewSubtaskOutput contains the result of creating a new subtask.
type NewSubtaskOutput struct {
	Subtask *domain.Subtask // The created subtask with its assigned ID
	Epic    *domain.Epic    // The owning epic after rollup
}

// NewSubtask is the use case for creating a subtask under an epic.
type NewSubtask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewNewSubtask creates a new NewSubtask use case.
func NewNewSubtask(tasks domain.TaskRepository, logger domain.Logger) *NewSubtask {
	return &NewSubtask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute creates a subtask and returns it with the rolled-up epic.
// Returns domain.ErrEpicNotFound if the epic does not exist and
// domain.ErrTimeConflict if the schedule overlaps a stored entity.
func (uc *NewSubtask) Execute(_ context.Context, in NewSubtaskInput) (*NewSubtaskOutput, error) {
	task, err := newTaskValue(in.Title, in.Description, in.Status, in.Start, in.Duration)
	if err != nil {
		return nil, err
	}

	created, err := uc.tasks.CreateSubtask(&domain.Subtask{Task: *task, EpicID: in.EpicID})
	if err != nil {
		return nil, fmt.Errorf("create subtask: %w", err)
	}

	out := &NewSubtaskOutput{Subtask: created}
	if e, err := uc.tasks.Peek(in.EpicID); err == nil {
		if epic, ok := e.(*domain.Epic); ok {
			out.Epic = epic
		}
	}

	if uc.logger != nil {
		uc.logger.Info(created.ID, "subtask",
			fmt.Sprintf("created: %q in epic #%d (%s)", created.Title, in.EpicID, describeSchedule(&created.Task)))
	}

	return out, nil
}
