package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase/shared"
)

// ListEntitiesInput contains the filters for listing entities.
// Empty filters match everything; all set filters must match.
// Fields are ordered to minimize memory padding.
type ListEntitiesInput struct {
	EpicID    *int            // Only subtasks of this epic
	Kinds     []domain.Kind   // Match any of these kinds
	Statuses  []domain.Status // Match any of these statuses
	Query     string          // Case-insensitive substring of title or description
	Scheduled *bool           // Only scheduled (true) or unscheduled (false) entities
}

// ListEntitiesOutput contains the result of listing entities.
type ListEntitiesOutput struct {
	Entities []domain.Entity // Matching entities ordered by ID
}

// ListEntities is the use case for listing and searching entities.
type ListEntities struct {
	tasks domain.TaskRepository
}

// NewListEntities creates a new ListEntities use case.
func NewListEntities(tasks domain.TaskRepository) *ListEntities {
	return &ListEntities{tasks: tasks}
}

// Execute lists entities matching the given filters.
func (uc *ListEntities) Execute(_ context.Context, in ListEntitiesInput) (*ListEntitiesOutput, error) {
	all, err := shared.AllEntities(uc.tasks)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Entity, 0, len(all))
	for _, e := range all {
		if in.matches(e) {
			matched = append(matched, e)
		}
	}
	return &ListEntitiesOutput{Entities: matched}, nil
}

func (in ListEntitiesInput) matches(e domain.Entity) bool {
	if len(in.Kinds) > 0 && !slices.Contains(in.Kinds, e.Kind()) {
		return false
	}
	base := e.Base()
	if len(in.Statuses) > 0 && !slices.Contains(in.Statuses, base.Status) {
		return false
	}
	if in.EpicID != nil {
		s, ok := e.(*domain.Subtask)
		if !ok || s.EpicID != *in.EpicID {
			return false
		}
	}
	if in.Scheduled != nil {
		_, scheduled := e.StartTime()
		if scheduled != *in.Scheduled {
			return false
		}
	}
	if in.Query != "" {
		q := strings.ToLower(in.Query)
		if !strings.Contains(strings.ToLower(base.Title), q) &&
			!strings.Contains(strings.ToLower(base.Description), q) {
			return false
		}
	}
	return true
}
