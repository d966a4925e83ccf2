package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/task-tracker/internal/domain"
)

// ShowScheduleInput contains the parameters for showing the schedule.
// From and To must be both set or both nil.
type ShowScheduleInput struct {
	From *time.Time // Range start (inclusive)
	To   *time.Time // Range end (inclusive)
}

// ShowScheduleOutput contains scheduled tasks and subtasks ordered by (start, ID).
type ShowScheduleOutput struct {
	Entries []domain.Entity
	Planned time.Duration // Sum of durations in Entries
}

// ShowSchedule is the use case for the prioritized schedule view.
type ShowSchedule struct {
	tasks domain.TaskRepository
}

// NewShowSchedule creates a new ShowSchedule use case.
func NewShowSchedule(tasks domain.TaskRepository) *ShowSchedule {
	return &ShowSchedule{tasks: tasks}
}

// Execute returns the scheduled entities, optionally limited to a range.
func (uc *ShowSchedule) Execute(_ context.Context, in ShowScheduleInput) (*ShowScheduleOutput, error) {
	var (
		entries []domain.Entity
		err     error
	)
	switch {
	case in.From == nil && in.To == nil:
		entries, err = uc.tasks.Prioritized()
	case in.From != nil && in.To != nil:
		entries, err = uc.tasks.InRange(*in.From, *in.To)
	default:
		return nil, fmt.Errorf("%w: both ends are required", domain.ErrInvalidTimeRange)
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	out := &ShowScheduleOutput{Entries: entries}
	for _, e := range entries {
		if d := e.Base().Duration; d != nil {
			out.Planned += *d
		}
	}
	return out, nil
}
