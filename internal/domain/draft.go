package domain

import (
	"fmt"
	"time"
)

// Draft is an entity to be created from file input.
// A subtask names its epic either by position in the same file (EpicIndex)
// or by the ID of an existing epic (EpicID), never both.
// Fields are ordered to minimize memory padding.
type Draft struct {
	Start       *time.Time
	Duration    *time.Duration
	Kind        Kind
	Title       string
	Description string
	Status      Status
	EpicIndex   int // 1-based position of an epic earlier in the file
	EpicID      int // Existing epic
	Line        int // Line of the opening --- in the file
}

// Validate checks a draft at 1-based position index against the drafts before it.
func (d *Draft) Validate(index int, earlier []Draft) error {
	if d.Title == "" {
		return ErrEmptyTitle
	}
	if d.Duration != nil {
		if err := ValidateDuration(*d.Duration); err != nil {
			return err
		}
	}

	switch d.Kind {
	case KindTask:
		if d.EpicIndex != 0 || d.EpicID != 0 {
			return fmt.Errorf("%w: a task cannot belong to an epic", ErrInvalidDraft)
		}
	case KindEpic:
		if d.EpicIndex != 0 || d.EpicID != 0 {
			return fmt.Errorf("%w: an epic cannot belong to an epic", ErrInvalidDraft)
		}
		if d.Status != StatusNew || d.Start != nil || d.Duration != nil {
			return fmt.Errorf("%w: status and schedule of an epic follow its subtasks", ErrInvalidDraft)
		}
	case KindSubtask:
		switch {
		case d.EpicIndex != 0 && d.EpicID != 0:
			return fmt.Errorf("%w: set either epic or epic_id", ErrInvalidDraft)
		case d.EpicIndex == 0 && d.EpicID == 0:
			return fmt.Errorf("%w: a subtask needs an epic", ErrInvalidDraft)
		case d.EpicIndex < 0 || d.EpicID < 0:
			return fmt.Errorf("%w: epic references must be positive", ErrInvalidDraft)
		case d.EpicIndex >= index:
			return fmt.Errorf("%w: epic %d must come before entry %d", ErrInvalidReference, d.EpicIndex, index)
		case d.EpicIndex > 0 && earlier[d.EpicIndex-1].Kind != KindEpic:
			return fmt.Errorf("%w: entry %d is not an epic", ErrInvalidReference, d.EpicIndex)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, d.Kind)
	}
	return nil
}
