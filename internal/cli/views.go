package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// newHistoryCommand creates the history command.
func newHistoryCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
		Limit  int
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently viewed entries",
		Long: `Show entries in the order they were last viewed, oldest first.

Viewing an entry with 'show' moves it to the end. Each entry appears at most
once, and deleted entries are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowHistoryUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowHistoryInput{Limit: opts.Limit})
			if err != nil {
				return err
			}

			if done, err := writeStructured(cmd.OutOrStdout(), opts.Format, newEntityViews(out.Entities)); done {
				return err
			}
			printEntityList(cmd.OutOrStdout(), out.Entities, c.TimeFormat())
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Show only the most recent N entries")
	addFormatFlag(cmd, &opts.Format)

	return cmd
}

// newScheduleCommand creates the schedule command.
func newScheduleCommand(c *app.Container) *cobra.Command {
	var opts struct {
		From   string
		To     string
		Format string
	}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show scheduled tasks and subtasks in start order",
		Long: `Show scheduled tasks and subtasks ordered by start time.

With --from and --to, only entries that lie entirely within the range are
shown. Both bounds are inclusive and must be given together.

Examples:
  tracker schedule
  tracker schedule --from 2025-03-10T00:00 --to 2025-03-11T00:00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in usecase.ShowScheduleInput
			if cmd.Flags().Changed("from") {
				from, err := parseTime(opts.From)
				if err != nil {
					return err
				}
				in.From = &from
			}
			if cmd.Flags().Changed("to") {
				to, err := parseTime(opts.To)
				if err != nil {
					return err
				}
				in.To = &to
			}

			uc := c.ShowScheduleUseCase()
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidTimeRange) && (in.From == nil) != (in.To == nil) {
					return fmt.Errorf("%w: --from and --to must be given together", err)
				}
				return err
			}

			view := struct {
				Planned string       `json:"planned" yaml:"planned"`
				Entries []entityView `json:"entries" yaml:"entries"`
			}{
				Planned: out.Planned.String(),
				Entries: newEntityViews(out.Entries),
			}
			if done, err := writeStructured(cmd.OutOrStdout(), opts.Format, view); done {
				return err
			}

			printEntityList(cmd.OutOrStdout(), out.Entries, c.TimeFormat())
			if len(out.Entries) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nPlanned: %s\n", formatDuration(out.Planned))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "Range start (inclusive)")
	cmd.Flags().StringVar(&opts.To, "to", "", "Range end (inclusive)")
	addFormatFlag(cmd, &opts.Format)

	return cmd
}

// newStatsCommand creates the stats command.
func newStatsCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Kinds   []string
		Format  string
		Verbose bool
	}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count entries by status",
		Long: `Group entries by status and print the count of each group.

Examples:
  tracker stats
  tracker stats --kind task --kind subtask -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in usecase.GroupByStatusInput
			for _, k := range opts.Kinds {
				kind, err := domain.ParseKind(k)
				if err != nil {
					return err
				}
				if !slices.Contains(in.Kinds, kind) {
					in.Kinds = append(in.Kinds, kind)
				}
			}

			uc := c.GroupByStatusUseCase()
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			type groupView struct {
				Status  domain.Status `json:"status" yaml:"status"`
				Entries []entityView  `json:"entries,omitempty" yaml:"entries,omitempty"`
				Count   int           `json:"count" yaml:"count"`
			}
			views := make([]groupView, 0, len(out.Groups))
			for _, g := range out.Groups {
				v := groupView{Status: g.Status, Count: len(g.Entities)}
				if opts.Verbose {
					v.Entries = newEntityViews(g.Entities)
				}
				views = append(views, v)
			}
			if done, err := writeStructured(cmd.OutOrStdout(), opts.Format, views); done {
				return err
			}

			printStatusGroups(cmd.OutOrStdout(), out.Groups, opts.Verbose)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.Kinds, "kind", nil, "Count only this kind: task, epic or subtask (can specify multiple)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "List the entries of each group")
	addFormatFlag(cmd, &opts.Format)

	return cmd
}

// printStatusGroups prints one line per status, followed by its entries when verbose.
func printStatusGroups(w io.Writer, groups []usecase.StatusGroup, verbose bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	total := 0
	for _, g := range groups {
		total += len(g.Entities)
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", g.Status.Display(), len(g.Entities))
		if !verbose {
			continue
		}
		for _, e := range g.Entities {
			_, _ = fmt.Fprintf(tw, "  #%d\t%s\t%s\n", e.Identity(), e.Kind().Display(), e.Base().Title)
		}
	}
	_, _ = fmt.Fprintf(tw, "Total\t%d\n", total)
}
