package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Long: `Initialize the task store in the current directory.

This command creates the .tracker/ directory with:
- config.toml: repository configuration template
- the empty store for the configured backend (tasks.csv by default)
- logs/: directory for log files

Running init again leaves an existing store untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Get use case from container
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
				Root:    c.Config.Root,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "Already initialized in %s\n", out.DataDir)
			} else {
				_, _ = fmt.Fprintf(w, "Initialized task tracker in %s\n", out.DataDir)
			}
			if out.ConfigPath != "" {
				_, _ = fmt.Fprintf(w, "Created config file: %s\n", out.ConfigPath)
			}
			if out.GitignoreNeedsAdd {
				_, _ = fmt.Fprintln(w, "Hint: add .tracker/logs/ to .gitignore")
			}
			return nil
		},
	}
}
