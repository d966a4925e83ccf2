package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage plain tasks",
		Long: `Manage plain tasks.

A task has a title, a description, a status (NEW, IN_PROGRESS, DONE) and an
optional schedule made of a start time and a duration. Scheduled entries
may not overlap.`,
	}

	cmd.AddCommand(
		newTaskNewCommand(c),
		newTaskEditCommand(c),
		newShowCommand(c, domain.KindTask),
		newListCommand(c, domain.KindTask),
		newDeleteCommand(c, domain.KindTask),
		newClearCommand(c, domain.KindTask),
	)
	return cmd
}

// createFlags holds the flags shared by task and subtask creation.
type createFlags struct {
	Title       string
	Description string
	Status      string
	schedule    scheduleFlags
}

func (f *createFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&f.Description, "body", "", "Description")
	cmd.Flags().StringVar(&f.Status, "status", "", "Initial status: new, in_progress or done (default new)")
	f.schedule.register(cmd)
	_ = cmd.MarkFlagRequired("title")
}

// newTaskNewCommand creates the task new subcommand.
func newTaskNewCommand(c *app.Container) *cobra.Command {
	var opts createFlags

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task.

Examples:
  # Create an unscheduled task
  tracker task new --title "Write release notes"

  # Create a scheduled task
  tracker task new --title "Standup" --start 2025-03-10T09:00 --duration 15m

Error conditions:
- The schedule overlaps another scheduled entry`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, duration, err := opts.schedule.values(cmd)
			if err != nil {
				return err
			}

			uc := c.NewTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.NewTaskInput{
				Start:       start,
				Duration:    duration,
				Title:       opts.Title,
				Description: opts.Description,
				Status:      opts.Status,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d\n", out.Task.ID)
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

// editFlags holds the flags shared by task and subtask edits.
type editFlags struct {
	Title       string
	Description string
	Status      string
	schedule    scheduleFlags
	Unschedule  bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Title, "title", "", "New title")
	cmd.Flags().StringVar(&f.Description, "body", "", "New description")
	cmd.Flags().StringVar(&f.Status, "status", "", "New status: new, in_progress or done")
	f.schedule.register(cmd)
	cmd.Flags().BoolVar(&f.Unschedule, "unschedule", false, "Remove start time and duration")
	cmd.MarkFlagsMutuallyExclusive("unschedule", "start")
	cmd.MarkFlagsMutuallyExclusive("unschedule", "duration")
}

// fields returns the changes requested on the command line.
// Only flags that were explicitly given are set.
func (f *editFlags) fields(cmd *cobra.Command) (usecase.TaskFields, error) {
	var fields usecase.TaskFields
	if cmd.Flags().Changed("title") {
		fields.Title = &f.Title
	}
	if cmd.Flags().Changed("body") {
		fields.Description = &f.Description
	}
	if cmd.Flags().Changed("status") {
		fields.Status = &f.Status
	}
	start, duration, err := f.schedule.values(cmd)
	if err != nil {
		return fields, err
	}
	fields.Start = start
	fields.Duration = duration
	fields.Unschedule = f.Unschedule
	return fields, nil
}

// newTaskEditCommand creates the task edit subcommand.
func newTaskEditCommand(c *app.Container) *cobra.Command {
	var opts editFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task.

Only the given flags are changed. Use --unschedule to remove the start time
and duration.

Examples:
  tracker task edit 3 --status done
  tracker task edit 3 --start 2025-03-10T14:00 --duration 1h`,
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

			uc := c.EditTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.EditTaskInput{TaskFields: fields, TaskID: id})
			if err != nil {
				if errors.Is(err, domain.ErrNoFieldsToUpdate) {
					return fmt.Errorf("%w: use --title, --body, --status, --start, --duration or --unschedule", err)
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", out.Task.ID)
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}
