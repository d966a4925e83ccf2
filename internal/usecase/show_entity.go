package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase/shared"
)

// ShowEntityInput contains the parameters for showing an entity.
type ShowEntityInput struct {
	Kind domain.Kind // Expected kind (optional, empty = any)
	ID   int         // Entity ID (required)
}

// ShowEntityOutput contains the result of showing an entity.
// Fields are ordered to minimize memory padding.
type ShowEntityOutput struct {
	Entity   domain.Entity     // The requested entity
	Epic     *domain.Epic      // Owning epic (subtasks only)
	Subtasks []*domain.Subtask // Owned subtasks (epics only)
}

// ShowEntity is the use case for displaying an entity.
// Showing an entity records the visit in history.
type ShowEntity struct {
	tasks domain.TaskRepository
}

// NewShowEntity creates a new ShowEntity use case.
func NewShowEntity(tasks domain.TaskRepository) *ShowEntity {
	return &ShowEntity{tasks: tasks}
}

// Execute retrieves an entity with its related entities.
func (uc *ShowEntity) Execute(_ context.Context, in ShowEntityInput) (*ShowEntityOutput, error) {
	if in.Kind != "" {
		// Check the kind before the visit is recorded.
		if _, err := shared.PeekAs(uc.tasks, in.ID, in.Kind); err != nil {
			return nil, err
		}
	}

	entity, err := shared.GetEntity(uc.tasks, in.ID)
	if err != nil {
		return nil, err
	}

	out := &ShowEntityOutput{Entity: entity}
	switch v := entity.(type) {
	case *domain.Epic:
		subtasks, err := uc.tasks.EpicSubtasks(v.ID)
		if err != nil {
			return nil, fmt.Errorf("get subtasks: %w", err)
		}
		out.Subtasks = subtasks
	case *domain.Subtask:
		if e, err := uc.tasks.Peek(v.EpicID); err == nil {
			out.Epic, _ = e.(*domain.Epic)
		}
	}

	return out, nil
}
