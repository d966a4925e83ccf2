package usecase

import (
	"context"
	"slices"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase/shared"
)

// GroupByStatusInput contains the parameters for grouping entities.
type GroupByStatusInput struct {
	Kinds []domain.Kind // Kinds to include (empty = all)
}

// StatusGroup holds the entities sharing a status.
type StatusGroup struct {
	Entities []domain.Entity
	Status   domain.Status
}

// GroupByStatusOutput contains one group per status in workflow order.
// Groups are present even when empty.
type GroupByStatusOutput struct {
	Groups []StatusGroup
}

// Count returns the number of entities with the given status.
func (o *GroupByStatusOutput) Count(status domain.Status) int {
	for _, g := range o.Groups {
		if g.Status == status {
			return len(g.Entities)
		}
	}
	return 0
}

// GroupByStatus is the use case for status statistics.
type GroupByStatus struct {
	tasks domain.TaskRepository
}

// NewGroupByStatus creates a new GroupByStatus use case.
func NewGroupByStatus(tasks domain.TaskRepository) *GroupByStatus {
	return &GroupByStatus{tasks: tasks}
}

// Execute groups entities by status.
func (uc *GroupByStatus) Execute(_ context.Context, in GroupByStatusInput) (*GroupByStatusOutput, error) {
	all, err := shared.AllEntities(uc.tasks)
	if err != nil {
		return nil, err
	}

	statuses := domain.AllStatuses()
	out := &GroupByStatusOutput{Groups: make([]StatusGroup, len(statuses))}
	for i, s := range statuses {
		out.Groups[i] = StatusGroup{Status: s, Entities: []domain.Entity{}}
	}

	for _, e := range all {
		if len(in.Kinds) > 0 && !slices.Contains(in.Kinds, e.Kind()) {
			continue
		}
		i := slices.Index(statuses, e.Base().Status)
		if i < 0 {
			continue
		}
		out.Groups[i].Entities = append(out.Groups[i].Entities, e)
	}
	return out, nil
}
