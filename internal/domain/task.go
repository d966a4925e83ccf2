// Package domain contains core business entities and interfaces.
package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Kind identifies which of the three entity types a record is.
type Kind string

const (
	KindTask    Kind = "TASK"    // Plain task
	KindEpic    Kind = "EPIC"    // Container task with derived status and schedule
	KindSubtask Kind = "SUBTASK" // Task owned by exactly one epic
)

// AllKinds returns all entity kinds.
func AllKinds() []Kind {
	return []Kind{KindTask, KindEpic, KindSubtask}
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// IsValid returns true if the kind is a known value.
func (k Kind) IsValid() bool {
	switch k {
	case KindTask, KindEpic, KindSubtask:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the kind.
func (k Kind) Display() string {
	switch k {
	case KindTask:
		return "Task"
	case KindEpic:
		return "Epic"
	case KindSubtask:
		return "Subtask"
	default:
		return string(k)
	}
}

// Ref identifies an entity without holding its value.
type Ref struct {
	Kind Kind `json:"kind" yaml:"kind"`
	ID   int  `json:"id" yaml:"id"`
}

// Entity is implemented by Task, Epic and Subtask.
// Equality between entities is identity-based: two entities are the same
// iff their identifiers are equal.
type Entity interface {
	// Identity returns the entity identifier.
	Identity() int
	// Kind returns the entity kind.
	Kind() Kind
	// StartTime returns the start time, if any.
	StartTime() (time.Time, bool)
	// Span returns the [start, end) interval. ok is false unless both
	// a start time and a duration are present.
	Span() (start, end time.Time, ok bool)
	// Base returns the shared task fields.
	Base() *Task
}

// RefOf returns the reference for an entity.
func RefOf(e Entity) Ref {
	return Ref{Kind: e.Kind(), ID: e.Identity()}
}

// Task represents a plain work item.
// Fields are ordered to minimize memory padding.
type Task struct {
	Start       *time.Time     `json:"startTime,omitempty" yaml:"startTime,omitempty"` // Scheduled start (optional)
	Duration    *time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`   // Planned duration (optional)
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status         `json:"status" yaml:"status"`
	ID          int            `json:"id" yaml:"id"` // Assigned by the repository
}

// Identity returns the task ID.
func (t *Task) Identity() int { return t.ID }

// Kind returns KindTask.
func (t *Task) Kind() Kind { return KindTask }

// Base returns the task itself.
func (t *Task) Base() *Task { return t }

// StartTime returns the start time, if any.
func (t *Task) StartTime() (time.Time, bool) {
	if t.Start == nil {
		return time.Time{}, false
	}
	return *t.Start, true
}

// End returns start + duration, or nil when either is absent.
func (t *Task) End() *time.Time {
	if t.Start == nil || t.Duration == nil {
		return nil
	}
	end := t.Start.Add(*t.Duration)
	return &end
}

// Span returns the [start, end) interval of the task.
func (t *Task) Span() (time.Time, time.Time, bool) {
	end := t.End()
	if end == nil {
		return time.Time{}, time.Time{}, false
	}
	return *t.Start, *end, true
}

// IsScheduled returns true if the task has a start time.
func (t *Task) IsScheduled() bool {
	return t.Start != nil
}

// SameAs reports whether both entities share an identifier.
func (t *Task) SameAs(other Entity) bool {
	return other != nil && t.ID == other.Identity()
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Start = cloneTime(t.Start)
	c.Duration = cloneDuration(t.Duration)
	return &c
}

// Epic is a task whose status and time bounds are derived from its subtasks.
type Epic struct {
	EndTime    *time.Time       `json:"endTime,omitempty" yaml:"endTime,omitempty"` // Derived: latest subtask end
	SubtaskIDs map[int]struct{} `json:"-" yaml:"-"`                                 // Owned subtask IDs
	Task       `yaml:",inline"`
}

// NewEpic creates an epic with an empty subtask set.
func NewEpic(title, description string) *Epic {
	e := &Epic{
		Task: Task{Title: title, Description: description},
	}
	e.Reset()
	return e
}

// Kind returns KindEpic.
func (e *Epic) Kind() Kind { return KindEpic }

// End returns the derived end time.
func (e *Epic) End() *time.Time { return e.EndTime }

// Span returns the derived [start, end) interval of the epic.
func (e *Epic) Span() (time.Time, time.Time, bool) {
	if e.Start == nil || e.EndTime == nil {
		return time.Time{}, time.Time{}, false
	}
	return *e.Start, *e.EndTime, true
}

// AddSubtask registers a subtask ID. Duplicates are ignored.
func (e *Epic) AddSubtask(id int) {
	if e.SubtaskIDs == nil {
		e.SubtaskIDs = make(map[int]struct{})
	}
	e.SubtaskIDs[id] = struct{}{}
}

// RemoveSubtask unregisters a subtask ID.
func (e *Epic) RemoveSubtask(id int) {
	delete(e.SubtaskIDs, id)
}

// HasSubtask returns true if the subtask ID is owned by the epic.
func (e *Epic) HasSubtask(id int) bool {
	_, ok := e.SubtaskIDs[id]
	return ok
}

// SubtaskList returns the owned subtask IDs in ascending order.
func (e *Epic) SubtaskList() []int {
	return slices.Sorted(maps.Keys(e.SubtaskIDs))
}

// Reset clears the subtask set and the derived fields.
func (e *Epic) Reset() {
	e.SubtaskIDs = make(map[int]struct{})
	e.Rollup(nil)
}

// Clone returns a deep copy of the epic.
func (e *Epic) Clone() *Epic {
	c := &Epic{
		Task:       *e.Task.Clone(),
		EndTime:    cloneTime(e.EndTime),
		SubtaskIDs: make(map[int]struct{}, len(e.SubtaskIDs)),
	}
	for id := range e.SubtaskIDs {
		c.SubtaskIDs[id] = struct{}{}
	}
	return c
}

// Subtask is a task owned by exactly one epic.
type Subtask struct {
	Task   `yaml:",inline"`
	EpicID int `json:"epicId" yaml:"epicId"` // Owning epic
}

// Kind returns KindSubtask.
func (s *Subtask) Kind() Kind { return KindSubtask }

// Clone returns a deep copy of the subtask.
func (s *Subtask) Clone() *Subtask {
	return &Subtask{Task: *s.Task.Clone(), EpicID: s.EpicID}
}

// CloneEntity returns a deep copy of any entity, preserving its concrete type.
func CloneEntity(e Entity) Entity {
	switch v := e.(type) {
	case *Task:
		return v.Clone()
	case *Epic:
		return v.Clone()
	case *Subtask:
		return v.Clone()
	default:
		return e
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneDuration(d *time.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time { return &t }

// DurationPtr returns a pointer to d.
func DurationPtr(d time.Duration) *time.Duration { return &d }

// ValidateDuration returns ErrInvalidDuration unless d is a non-negative
// whole number of minutes, the precision of the record format.
func ValidateDuration(d time.Duration) error {
	if d < 0 || d%time.Minute != 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, d)
	}
	return nil
}

// InputTimeLayouts are the layouts accepted for user supplied times.
var InputTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseLocalTime parses s in one of InputTimeLayouts. Times without a zone are local.
func ParseLocalTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range InputTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DDTHH:MM[:SS] or YYYY-MM-DD HH:MM)", s)
}
