package usecase

import (
	"fmt"
	"time"

	"github.com/runoshun/task-tracker/internal/domain"
)

// TaskFields holds the optional edits shared by tasks and subtasks.
// Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type TaskFields struct {
	Title       *string        // New title
	Description *string        // New description
	Status      *string        // New status name (parsed with domain.ParseStatus)
	Start       *time.Time     // New start time
	Duration    *time.Duration // New duration
	Unschedule  bool           // Clear start time and duration
}

// IsEmpty reports whether no field is set.
func (f TaskFields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil && f.Status == nil &&
		f.Start == nil && f.Duration == nil && !f.Unschedule
}

// apply writes the set fields onto t.
func (f TaskFields) apply(t *domain.Task) error {
	if f.Title != nil {
		if *f.Title == "" {
			return domain.ErrEmptyTitle
		}
		t.Title = *f.Title
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	if f.Status != nil {
		status, err := domain.ParseStatus(*f.Status)
		if err != nil {
			return fmt.Errorf("%w: %q", err, *f.Status)
		}
		t.Status = status
	}
	if f.Unschedule {
		t.Start = nil
		t.Duration = nil
	}
	if f.Start != nil {
		t.Start = domain.TimePtr(*f.Start)
	}
	if f.Duration != nil {
		if err := domain.ValidateDuration(*f.Duration); err != nil {
			return err
		}
		t.Duration = domain.DurationPtr(*f.Duration)
	}
	return nil
}

// newTaskValue builds a task from creation input.
func newTaskValue(title, description, status string, start *time.Time, duration *time.Duration) (*domain.Task, error) {
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, status)
	}
	if duration != nil {
		if err := domain.ValidateDuration(*duration); err != nil {
			return nil, err
		}
	}
	t := &domain.Task{
		Title:       title,
		Description: description,
		Status:      parsed,
	}
	if start != nil {
		t.Start = domain.TimePtr(*start)
	}
	if duration != nil {
		t.Duration = domain.DurationPtr(*duration)
	}
	return t, nil
}

// describeSchedule formats a schedule for log messages.
func describeSchedule(t *domain.Task) string {
	if t.Start == nil {
		return "unscheduled"
	}
	s := t.Start.Format(domain.DefaultTimeFormat)
	if t.Duration != nil {
		s += " for " + t.Duration.String()
	}
	return s
}
