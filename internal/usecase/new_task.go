// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/task-tracker/internal/domain"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	Start       *time.Time     // Scheduled start (optional)
	Duration    *time.Duration // Planned duration (optional)
	Title       string         // Task title (required)
	Description string         // Task description (optional)
	Status      string         // Initial status (optional, empty = NEW)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task *domain.Task // The created task with its assigned ID
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, logger domain.Logger) *NewTask {
	return &NewTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute creates a new task with the given input.
// Returns domain.ErrTimeConflict if the schedule overlaps a stored entity.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	task, err := newTaskValue(in.Title, in.Description, in.Status, in.Start, in.Duration)
	if err != nil {
		return nil, err
	}

	created, err := uc.tasks.CreateTask(task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(created.ID, "task", fmt.Sprintf("created: %q (%s)", created.Title, describeSchedule(created)))
	}

	return &NewTaskOutput{Task: created}, nil
}
