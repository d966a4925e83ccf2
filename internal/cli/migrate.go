package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		To    string
		Path  string
		Force bool
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the store to another backend",
		Long: fmt.Sprintf(`Copy every task, epic, subtask and the history from the current store
to another backend (%s).

The current store is left unchanged. Afterwards, set [store] backend in
.tracker/config.toml to start using the new store.

Examples:
  tracker migrate --to json
  tracker migrate --to csv --path backup.csv

Error conditions:
- The destination is the current store
- The destination already holds different data (use --force)`, strings.Join(domain.AllBackends(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.MigrateStoreUseCase(opts.To, opts.Path)
			if err != nil {
				return err
			}

			out, err := uc.Execute(cmd.Context(), usecase.MigrateStoreInput{Force: opts.Force})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, s := range out.Skipped {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %s\n", s)
			}
			if out.Unchanged {
				_, _ = fmt.Fprintf(w, "The %s store is already up to date\n", opts.To)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Migrated %s, %s and %s to the %s store\n",
				plural(out.Tasks, "task"), plural(out.Epics, "epic"), plural(out.Subtasks, "subtask"), opts.To)
			_, _ = fmt.Fprintf(w, "Hint: set backend = %q under [store] in .tracker/config.toml to use it\n", opts.To)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "Destination backend (required)")
	cmd.Flags().StringVar(&opts.Path, "path", "", "Destination file, relative to .tracker (csv, json)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite a destination holding different data")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
