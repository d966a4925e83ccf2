package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// newSubtaskCommand creates the subtask command group.
func newSubtaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"s"},
		Short:   "Manage subtasks of epics",
		Long: `Manage subtasks.

A subtask is a task owned by exactly one epic. Creating, editing or deleting
a subtask updates the status and time bounds of its epic.`,
	}

	cmd.AddCommand(
		newSubtaskNewCommand(c),
		newSubtaskEditCommand(c),
		newShowCommand(c, domain.KindSubtask),
		newListCommand(c, domain.KindSubtask),
		newDeleteCommand(c, domain.KindSubtask),
		newClearCommand(c, domain.KindSubtask),
	)
	return cmd
}

// printEpicStatus prints the derived state of an epic after a subtask change.
func printEpicStatus(cmd *cobra.Command, epic *domain.Epic) {
	if epic == nil {
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Epic #%d is now %s\n", epic.ID, epic.Status.Display())
}

// newSubtaskNewCommand creates the subtask new subcommand.
func newSubtaskNewCommand(c *app.Container) *cobra.Command {
	var opts createFlags
	var epicID int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new subtask",
		Long: `Create a new subtask under an existing epic.

Example:
  tracker subtask new --epic 2 --title "Build artifacts" --start 2025-03-10T10:00 --duration 2h

Error conditions:
- The epic does not exist
- The schedule overlaps another scheduled entry`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, duration, err := opts.schedule.values(cmd)
			if err != nil {
				return err
			}

			uc := c.NewSubtaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.NewSubtaskInput{
				Start:       start,
				Duration:    duration,
				Title:       opts.Title,
				Description: opts.Description,
				Status:      opts.Status,
				EpicID:      epicID,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created subtask #%d in epic #%d\n", out.Subtask.ID, out.Subtask.EpicID)
			printEpicStatus(cmd, out.Epic)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&epicID, "epic", 0, "Owning epic ID (required)")
	_ = cmd.MarkFlagRequired("epic")

	return cmd
}

// newSubtaskEditCommand creates the subtask edit subcommand.
func newSubtaskEditCommand(c *app.Container) *cobra.Command {
	var opts editFlags
	var epicID int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a subtask",
		Long: `Edit a subtask.

Only the given flags are changed. --epic moves the subtask to another epic;
both epics are updated.

Examples:
  tracker subtask edit 4 --status in_progress
  tracker subtask edit 4 --epic 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fields, err := opts.fields(cmd)
			if err != nil {
				return err
			}

			input := usecase.EditSubtaskInput{TaskFields: fields, SubtaskID: id}
			if cmd.Flags().Changed("epic") {
				input.EpicID = &epicID
			}

			uc := c.EditSubtaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated subtask #%d\n", out.Subtask.ID)
			if out.Previous != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved from epic #%d to #%d\n", out.Previous.ID, out.Subtask.EpicID)
				printEpicStatus(cmd, out.Previous)
			}
			printEpicStatus(cmd, out.Epic)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&epicID, "epic", 0, "Move to this epic")

	return cmd
}
