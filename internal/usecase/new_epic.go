package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
)

// NewEpicInput contains the parameters for creating a new epic.
type NewEpicInput struct {
	Title       string // Epic title (required)
	Description string // Epic description (optional)
}

// NewEpicOutput contains the result of creating a new epic.
type NewEpicOutput struct {
	Epic *domain.Epic // The created epic with its assigned ID
}

// NewEpic is the use case for creating a new epic.
type NewEpic struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewNewEpic creates a new NewEpic use case.
func NewNewEpic(tasks domain.TaskRepository, logger domain.Logger) *NewEpic {
	return &NewEpic{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute creates a new epic with an empty subtask set.
func (uc *NewEpic) Execute(_ context.Context, in NewEpicInput) (*NewEpicOutput, error) {
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}

	created, err := uc.tasks.CreateEpic(domain.NewEpic(in.Title, in.Description))
	if err != nil {
		return nil, fmt.Errorf("create epic: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(created.ID, "epic", fmt.Sprintf("created: %q", created.Title))
	}

	return &NewEpicOutput{Epic: created}, nil
}
