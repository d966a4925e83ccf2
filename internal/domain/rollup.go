package domain

import "time"

// RollupStatus derives an epic status from its subtasks.
// Empty or all NEW yields NEW, all DONE yields DONE, anything else IN_PROGRESS.
func RollupStatus(subtasks []*Subtask) Status {
	if len(subtasks) == 0 {
		return StatusNew
	}
	allNew, allDone := true, true
	for _, s := range subtasks {
		if s.Status != StatusNew {
			allNew = false
		}
		if s.Status != StatusDone {
			allDone = false
		}
	}
	switch {
	case allNew:
		return StatusNew
	case allDone:
		return StatusDone
	default:
		return StatusInProgress
	}
}

// RollupSpan derives an epic schedule from its subtasks: the earliest start,
// the latest end and the sum of all durations. Subtasks without a duration
// contribute zero.
func RollupSpan(subtasks []*Subtask) (start, end *time.Time, total time.Duration) {
	for _, s := range subtasks {
		if s.Start != nil && (start == nil || s.Start.Before(*start)) {
			start = cloneTime(s.Start)
		}
		if e := s.End(); e != nil && (end == nil || e.After(*end)) {
			end = e
		}
		if s.Duration != nil {
			total += *s.Duration
		}
	}
	return start, end, total
}

// Rollup recomputes the derived status and time fields from subtasks.
func (e *Epic) Rollup(subtasks []*Subtask) {
	start, end, total := RollupSpan(subtasks)
	e.Status = RollupStatus(subtasks)
	e.Start = start
	e.EndTime = end
	e.Duration = &total
}
