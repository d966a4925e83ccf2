package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID are optional. Only set fields will be updated.
type EditTaskInput struct {
	TaskFields
	TaskID int // Task ID to edit (required)
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task // The updated task
}

// EditTask is the use case for editing an existing task.
type EditTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskRepository, logger domain.Logger) *EditTask {
	return &EditTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute edits a task with the given input.
// A rejected schedule leaves the stored task unchanged.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if in.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	e, err := shared.PeekAs(uc.tasks, in.TaskID, domain.KindTask)
	if err != nil {
		return nil, err
	}
	task := e.Base().Clone()

	if err := in.apply(task); err != nil {
		return nil, err
	}

	if err := uc.tasks.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("edited: %q [%s] (%s)", task.Title, task.Status, describeSchedule(task)))
	}

	return &EditTaskOutput{Task: task}, nil
}
