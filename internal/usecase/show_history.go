package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
)

// ShowHistoryInput contains the parameters for showing the visit history.
type ShowHistoryInput struct {
	Limit int // Keep only the most recent N entries (0 = all)
}

// ShowHistoryOutput contains the visited entities, oldest first.
type ShowHistoryOutput struct {
	Entities []domain.Entity
}

// ShowHistory is the use case for listing recently viewed entities.
type ShowHistory struct {
	tasks domain.TaskRepository
}

// NewShowHistory creates a new ShowHistory use case.
func NewShowHistory(tasks domain.TaskRepository) *ShowHistory {
	return &ShowHistory{tasks: tasks}
}

// Execute returns the visit history.
func (uc *ShowHistory) Execute(_ context.Context, in ShowHistoryInput) (*ShowHistoryOutput, error) {
	entities, err := uc.tasks.History()
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	if in.Limit > 0 && len(entities) > in.Limit {
		entities = entities[len(entities)-in.Limit:]
	}
	return &ShowHistoryOutput{Entities: entities}, nil
}
