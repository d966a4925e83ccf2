package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create tasks, epics and subtasks from a markdown file",
		Long: `Create entries from a markdown file. Use - to read from stdin.

Each entry starts with a YAML frontmatter block; the text after it is the
description:

  ---
  title: Release 2.0
  kind: epic
  ---
  Everything for the 2.0 release.

  ---
  title: Build artifacts
  epic: 1
  start: 2025-03-10T10:00
  duration: 2h
  ---

Keys: title (required), kind (task, epic, subtask), status, start, duration,
epic (position of an epic earlier in the file) and epic_id (an existing epic).
kind defaults to subtask when epic or epic_id is set, otherwise to task.

Entries are created in order. If one fails, the entries created before it
are deleted again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readImportFile(cmd, args[0])
			if err != nil {
				return err
			}

			uc := c.ImportEntitiesUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ImportEntitiesInput{
				Content: content,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, e := range out.Entities {
				noun := kindNoun(e.Draft.Kind)
				switch {
				case dryRun && e.Draft.Kind == domain.KindSubtask && e.Draft.EpicIndex > 0:
					_, _ = fmt.Fprintf(w, "%d. Would create %s %q in entry %d\n", i+1, noun, e.Draft.Title, e.Draft.EpicIndex)
				case dryRun && e.Draft.Kind == domain.KindSubtask:
					_, _ = fmt.Fprintf(w, "%d. Would create %s %q in epic #%d\n", i+1, noun, e.Draft.Title, e.EpicID)
				case dryRun:
					_, _ = fmt.Fprintf(w, "%d. Would create %s %q\n", i+1, noun, e.Draft.Title)
				case e.Draft.Kind == domain.KindSubtask:
					_, _ = fmt.Fprintf(w, "Created %s #%d in epic #%d: %s\n", noun, e.ID, e.EpicID, e.Draft.Title)
				default:
					_, _ = fmt.Fprintf(w, "Created %s #%d: %s\n", noun, e.ID, e.Draft.Title)
				}
			}
			if dryRun {
				_, _ = fmt.Fprintf(w, "Dry run: nothing created (%d checked)\n", len(out.Entities))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without creating anything")
	return cmd
}

// readImportFile reads path, or stdin when path is "-".
func readImportFile(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}
