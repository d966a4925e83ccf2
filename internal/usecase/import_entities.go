package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase/shared"
)

// ImportEntitiesInput contains the parameters for importing entities from a file.
type ImportEntitiesInput struct {
	Content string // File content (markdown with YAML frontmatter)
	DryRun  bool   // If true, parse and validate without creating anything
}

// ImportedEntity describes an entity created from file input.
// Fields are ordered to minimize memory padding.
type ImportedEntity struct {
	Draft  domain.Draft
	ID     int // Assigned ID (0 in dry-run mode)
	EpicID int // Owning epic of a subtask (0 in dry-run mode for epics from the same file)
}

// ImportEntitiesOutput contains the result of importing entities.
type ImportEntitiesOutput struct {
	Entities []ImportedEntity // In file order
}

// ImportEntities is the use case for creating entities from a file.
type ImportEntities struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewImportEntities creates a new ImportEntities use case.
func NewImportEntities(tasks domain.TaskRepository, logger domain.Logger) *ImportEntities {
	return &ImportEntities{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute creates every entry of the file in order.
// If any entry fails, the entities created so far are deleted again.
func (uc *ImportEntities) Execute(_ context.Context, in ImportEntitiesInput) (*ImportEntitiesOutput, error) {
	drafts, err := ParseDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	// Existing epics are checked before anything is created.
	for i, d := range drafts {
		if d.EpicID == 0 {
			continue
		}
		if _, err := shared.PeekAs(uc.tasks, d.EpicID, domain.KindEpic); err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidKind) {
				err = fmt.Errorf("epic #%d: %w", d.EpicID, domain.ErrEpicNotFound)
			}
			return nil, fmt.Errorf("entry %d (line %d): %w", i+1, d.Line, err)
		}
	}

	out := &ImportEntitiesOutput{Entities: make([]ImportedEntity, 0, len(drafts))}
	if in.DryRun {
		for _, d := range drafts {
			out.Entities = append(out.Entities, ImportedEntity{Draft: d, EpicID: d.EpicID})
		}
		return out, nil
	}

	for i, d := range drafts {
		imported, err := uc.create(d, out.Entities)
		if err != nil {
			uc.rollback(out.Entities)
			return nil, fmt.Errorf("entry %d (line %d): %w", i+1, d.Line, err)
		}
		out.Entities = append(out.Entities, imported)
	}

	if uc.logger != nil {
		uc.logger.Info(0, "import", fmt.Sprintf("imported %d entries", len(out.Entities)))
	}
	return out, nil
}

// create stores one draft. Subtasks may refer to epics in created.
func (uc *ImportEntities) create(d domain.Draft, created []ImportedEntity) (ImportedEntity, error) {
	imported := ImportedEntity{Draft: d}

	switch d.Kind {
	case domain.KindEpic:
		epic, err := uc.tasks.CreateEpic(domain.NewEpic(d.Title, d.Description))
		if err != nil {
			return imported, fmt.Errorf("create epic: %w", err)
		}
		imported.ID = epic.ID

	case domain.KindSubtask:
		epicID := d.EpicID
		if d.EpicIndex > 0 {
			epicID = created[d.EpicIndex-1].ID
		}
		subtask, err := uc.tasks.CreateSubtask(&domain.Subtask{Task: *draftTask(d), EpicID: epicID})
		if err != nil {
			return imported, fmt.Errorf("create subtask: %w", err)
		}
		imported.ID = subtask.ID
		imported.EpicID = epicID

	default:
		task, err := uc.tasks.CreateTask(draftTask(d))
		if err != nil {
			return imported, fmt.Errorf("create task: %w", err)
		}
		imported.ID = task.ID
	}

	if uc.logger != nil {
		uc.logger.Info(imported.ID, "import", fmt.Sprintf("created %s: %q", d.Kind.Display(), d.Title))
	}
	return imported, nil
}

// rollback deletes created entities, newest first.
func (uc *ImportEntities) rollback(created []ImportedEntity) {
	for _, e := range slices.Backward(created) {
		var err error
		switch e.Draft.Kind {
		case domain.KindEpic:
			err = uc.tasks.DeleteEpic(e.ID)
		case domain.KindSubtask:
			err = uc.tasks.DeleteSubtask(e.ID)
		default:
			err = uc.tasks.DeleteTask(e.ID)
		}
		// Subtasks of a deleted epic are already gone.
		if err != nil && !errors.Is(err, domain.ErrNotFound) && uc.logger != nil {
			uc.logger.Warn(e.ID, "import", "rollback: "+err.Error())
		}
	}
}

func draftTask(d domain.Draft) *domain.Task {
	return &domain.Task{
		Start:       d.Start,
		Duration:    d.Duration,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
	}
}
