package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// newEpicCommand creates the epic command group.
func newEpicCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "epic",
		Aliases: []string{"e"},
		Short:   "Manage epics",
		Long: `Manage epics.

An epic groups subtasks. Its status and time bounds are derived from its
subtasks: it is DONE when every subtask is done, NEW when none has started,
and IN_PROGRESS otherwise. Its start is the earliest subtask start and its
end the latest subtask end.`,
	}

	cmd.AddCommand(
		newEpicNewCommand(c),
		newEpicEditCommand(c),
		newShowCommand(c, domain.KindEpic),
		newListCommand(c, domain.KindEpic),
		newDeleteCommand(c, domain.KindEpic),
		newClearCommand(c, domain.KindEpic),
		newEpicSubtasksCommand(c),
	)
	return cmd
}

// newEpicNewCommand creates the epic new subcommand.
func newEpicNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new epic",
		Long: `Create a new epic without subtasks.

Example:
  tracker epic new --title "Release 2.0"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.NewEpicUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.NewEpicInput{
				Title:       opts.Title,
				Description: opts.Description,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created epic #%d\n", out.Epic.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Epic title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Epic description")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newEpicEditCommand creates the epic edit subcommand.
func newEpicEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an epic",
		Long: `Edit the title or description of an epic.

Status and schedule of an epic follow its subtasks and cannot be edited.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			input := usecase.EditEpicInput{EpicID: id}
			if cmd.Flags().Changed("title") {
				input.Title = &opts.Title
			}
			if cmd.Flags().Changed("body") {
				input.Description = &opts.Description
			}

			uc := c.EditEpicUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated epic #%d\n", out.Epic.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")

	return cmd
}

// newEpicSubtasksCommand creates the epic subtasks subcommand.
func newEpicSubtasksCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "subtasks <id>",
		Short: "List the subtasks of an epic",
		Long: `List the subtasks of an epic ordered by ID.

Unlike 'subtask list --epic', an unknown epic ID is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			// Listing the subtasks of an epic counts as a visit to the epic.
			uc := c.ShowEntityUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowEntityInput{Kind: domain.KindEpic, ID: id})
			if err != nil {
				return err
			}

			if done, err := writeStructured(cmd.OutOrStdout(), format, newEntityViews(out.Subtasks)); done {
				return err
			}
			entities := make([]domain.Entity, 0, len(out.Subtasks))
			for _, s := range out.Subtasks {
				entities = append(entities, s)
			}
			printEntityList(cmd.OutOrStdout(), entities, c.TimeFormat())
			return nil
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}
