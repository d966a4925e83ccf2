package domain

import (
	"testing"
	"time"
)

func sub(id int, status Status) *Subtask {
	return &Subtask{Task: Task{ID: id, Status: status}, EpicID: 100}
}

func TestRollupStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"no subtasks", nil, StatusNew},
		{"all new", []Status{StatusNew, StatusNew}, StatusNew},
		{"all done", []Status{StatusDone, StatusDone}, StatusDone},
		{"new and done", []Status{StatusNew, StatusDone}, StatusInProgress},
		{"all in progress", []Status{StatusInProgress, StatusInProgress}, StatusInProgress},
		{"new and in progress", []Status{StatusNew, StatusInProgress}, StatusInProgress},
		{"single done", []Status{StatusDone}, StatusDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subs []*Subtask
			for i, s := range tt.statuses {
				subs = append(subs, sub(i+1, s))
			}
			if got := RollupStatus(subs); got != tt.want {
				t.Errorf("RollupStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRollupSpan(t *testing.T) {
	a := sub(1, StatusNew)
	a.Start = TimePtr(base)
	a.Duration = DurationPtr(2 * time.Hour)
	b := sub(2, StatusNew)
	b.Start = TimePtr(base.Add(3 * time.Hour))
	b.Duration = DurationPtr(time.Hour)

	start, end, total := RollupSpan([]*Subtask{b, a})

	if start == nil || !start.Equal(base) {
		t.Errorf("start = %v, want %v", start, base)
	}
	if want := base.Add(4 * time.Hour); end == nil || !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
	if total != 3*time.Hour {
		t.Errorf("total = %v, want 3h", total)
	}
}

func TestRollupSpan_PartialFields(t *testing.T) {
	onlyDuration := sub(1, StatusNew)
	onlyDuration.Duration = DurationPtr(30 * time.Minute)
	onlyStart := sub(2, StatusNew)
	onlyStart.Start = TimePtr(base)

	start, end, total := RollupSpan([]*Subtask{onlyDuration, onlyStart})

	if start == nil || !start.Equal(base) {
		t.Errorf("start = %v, want %v", start, base)
	}
	if end != nil {
		t.Errorf("end = %v, want nil", end)
	}
	if total != 30*time.Minute {
		t.Errorf("total = %v, want 30m", total)
	}
}

func TestEpic_Rollup(t *testing.T) {
	e := NewEpic("epic", "")
	a := sub(1, StatusDone)
	a.Start = TimePtr(base)
	a.Duration = DurationPtr(time.Hour)

	e.Rollup([]*Subtask{a})
	if e.Status != StatusDone || e.Start == nil || e.End() == nil || *e.Duration != time.Hour {
		t.Fatalf("unexpected rollup: status=%s start=%v end=%v duration=%v", e.Status, e.Start, e.End(), e.Duration)
	}

	e.Rollup(nil)
	if e.Status != StatusNew || e.Start != nil || e.End() != nil || *e.Duration != 0 {
		t.Errorf("empty rollup: status=%s start=%v end=%v duration=%v", e.Status, e.Start, e.End(), e.Duration)
	}
}

func TestEpic_RollupDoesNotAliasSubtask(t *testing.T) {
	e := NewEpic("epic", "")
	a := sub(1, StatusNew)
	a.Start = TimePtr(base)
	a.Duration = DurationPtr(time.Hour)

	e.Rollup([]*Subtask{a})
	*a.Start = base.Add(time.Hour)

	if !e.Start.Equal(base) {
		t.Error("epic start aliases the subtask start")
	}
}
