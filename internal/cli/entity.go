package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// kindNoun returns the lower-case noun used in command help and messages.
func kindNoun(kind domain.Kind) string {
	return strings.ToLower(kind.Display())
}

// plural returns "1 task" or "2 tasks".
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// newShowCommand creates the show subcommand for a kind.
// Showing an entity records a visit in history.
func newShowCommand(c *app.Container, kind domain.Kind) *cobra.Command {
	var format string
	noun := kindNoun(kind)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show %s details", noun),
		Long: fmt.Sprintf(`Show details of a %[1]s.

Viewing a %[1]s moves it to the end of the history.

Error conditions:
- The ID does not exist
- The ID belongs to another kind`, noun),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			uc := c.ShowEntityUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowEntityInput{Kind: kind, ID: id})
			if err != nil {
				return err
			}

			view := struct {
				Epic     *entityView  `json:"epic,omitempty" yaml:"epic,omitempty"`
				Entity   entityView   `json:"entity" yaml:"entity"`
				Subtasks []entityView `json:"subtaskDetails,omitempty" yaml:"subtaskDetails,omitempty"`
			}{
				Entity:   newEntityView(out.Entity),
				Subtasks: newEntityViews(out.Subtasks),
			}
			if out.Epic != nil {
				ev := newEntityView(out.Epic)
				view.Epic = &ev
			}
			if done, err := writeStructured(cmd.OutOrStdout(), format, view); done {
				return err
			}

			printEntityDetails(cmd.OutOrStdout(), out.Entity, out.Epic, out.Subtasks, c.TimeFormat())
			return nil
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

// listOptions holds the filter flags shared by list commands.
type listOptions struct {
	Statuses  []string
	Query     string
	Format    string
	EpicID    int
	Scheduled bool
}

func (o *listOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.Statuses, "status", nil, "Filter by status (can specify multiple)")
	cmd.Flags().StringVarP(&o.Query, "query", "q", "", "Filter by text in title or description")
	cmd.Flags().BoolVar(&o.Scheduled, "scheduled", false, "Only scheduled (true) or unscheduled (false) entries")
	addFormatFlag(cmd, &o.Format)
}

// input builds the use case input from the flags.
func (o *listOptions) input(cmd *cobra.Command, kind domain.Kind) (usecase.ListEntitiesInput, error) {
	in := usecase.ListEntitiesInput{
		Kinds: []domain.Kind{kind},
		Query: o.Query,
	}
	for _, s := range o.Statuses {
		status, err := domain.ParseStatus(s)
		if err != nil {
			return in, fmt.Errorf("%w: %q", err, s)
		}
		in.Statuses = append(in.Statuses, status)
	}
	if cmd.Flags().Changed("scheduled") {
		scheduled := o.Scheduled
		in.Scheduled = &scheduled
	}
	if o.EpicID > 0 {
		in.EpicID = &o.EpicID
	}
	return in, nil
}

// runList executes a list and prints the result.
func runList(cmd *cobra.Command, c *app.Container, in usecase.ListEntitiesInput, format string) error {
	uc := c.ListEntitiesUseCase()
	out, err := uc.Execute(cmd.Context(), in)
	if err != nil {
		return err
	}

	if done, err := writeStructured(cmd.OutOrStdout(), format, newEntityViews(out.Entities)); done {
		return err
	}
	printEntityList(cmd.OutOrStdout(), out.Entities, c.TimeFormat())
	return nil
}

// newListCommand creates the list subcommand for a kind.
func newListCommand(c *app.Container, kind domain.Kind) *cobra.Command {
	var opts listOptions
	noun := kindNoun(kind)

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss", noun),
		Long: fmt.Sprintf(`List %[1]ss ordered by ID.

Examples:
  # List everything
  tracker %[1]s list

  # List unfinished entries that mention "release"
  tracker %[1]s list --status new --status in_progress -q release

  # List entries without a start time as yaml
  tracker %[1]s list --scheduled=false --format yaml`, noun),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := opts.input(cmd, kind)
			if err != nil {
				return err
			}
			return runList(cmd, c, in, opts.Format)
		},
	}

	opts.register(cmd)
	if kind == domain.KindSubtask {
		cmd.Flags().IntVar(&opts.EpicID, "epic", 0, "Show only subtasks of this epic")
	}
	return cmd
}

// newDeleteCommand creates the delete subcommand for a kind.
func newDeleteCommand(c *app.Container, kind domain.Kind) *cobra.Command {
	noun := kindNoun(kind)
	long := fmt.Sprintf("Delete a %s.", noun)
	if kind == domain.KindEpic {
		long += "\n\nAll subtasks of the epic are deleted with it."
	}

	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", noun),
		Long:    long,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			uc := c.DeleteEntityUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.DeleteEntityInput{Kind: kind, ID: id})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Deleted %s #%d\n", noun, out.ID)
			if len(out.Cascaded) > 0 {
				ids := make([]string, 0, len(out.Cascaded))
				for _, sid := range out.Cascaded {
					ids = append(ids, fmt.Sprintf("#%d", sid))
				}
				_, _ = fmt.Fprintf(w, "Deleted %s: %s\n", plural(len(ids), "subtask"), strings.Join(ids, ", "))
			}
			return nil
		},
	}
}

// newClearCommand creates the clear subcommand for a kind.
func newClearCommand(c *app.Container, kind domain.Kind) *cobra.Command {
	var yes bool
	noun := kindNoun(kind)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: fmt.Sprintf("Delete all %ss", noun),
		Long: fmt.Sprintf(`Delete all %ss.

Requires --yes.`, noun),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all %ss without --yes", noun)
			}

			uc := c.ClearEntitiesUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ClearEntitiesInput{Kind: kind})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch kind {
			case domain.KindTask:
				_, _ = fmt.Fprintf(w, "Deleted %s\n", plural(out.Tasks, "task"))
			case domain.KindEpic:
				_, _ = fmt.Fprintf(w, "Deleted %s and %s\n", plural(out.Epics, "epic"), plural(out.Subtasks, "subtask"))
			case domain.KindSubtask:
				_, _ = fmt.Fprintf(w, "Deleted %s\n", plural(out.Subtasks, "subtask"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}
