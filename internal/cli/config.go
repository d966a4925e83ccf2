package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	var initFile, global, template bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration",
		Long: `Display the effective configuration and the files it was loaded from.

Sources are merged in this order, later wins:
  defaults, global config, repository config (.tracker/config.toml),
  environment (TRACKER_STORE_BACKEND, TRACKER_STORE_PATH, TRACKER_LOG_LEVEL)

With --init, write a configuration template instead. By default the
repository config is created; with --global, the global config.
With --template, print the template filled with the effective values.

Error conditions:
- --init and the target file already exists`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if initFile {
				return runConfigInit(cmd, c, global)
			}
			if global {
				return fmt.Errorf("--global requires --init")
			}
			if template {
				return runConfigTemplate(cmd, c)
			}

			uc := c.ShowConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, info := range []domain.ConfigInfo{out.GlobalConfig, out.RepoConfig} {
				if info.Path == "" {
					continue
				}
				if info.Exists {
					_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
				}
			}

			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.Effective)
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "Create a configuration file template")
	cmd.Flags().BoolVar(&global, "global", false, "With --init, create the global configuration")
	cmd.Flags().BoolVar(&template, "template", false, "Print a configuration template")
	cmd.MarkFlagsMutuallyExclusive("init", "template")

	return cmd
}

// runConfigInit creates a repository or global config template.
func runConfigInit(cmd *cobra.Command, c *app.Container, global bool) error {
	in := usecase.InitConfigInput{Scope: usecase.ScopeRepo}
	if global {
		in.Scope = usecase.ScopeGlobal
	}
	out, err := c.InitConfigUseCase().Execute(cmd.Context(), in)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s config file: %s\n", out.Scope, out.File.Path)
	return nil
}

// runConfigTemplate prints the config template for the effective configuration.
func runConfigTemplate(cmd *cobra.Command, c *app.Container) error {
	out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{Template: true})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Template)
	return nil
}

// formatEffectiveConfig writes the merged config in TOML format.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	output := map[string]any{
		"store": map[string]any{
			"backend":   cfg.Store.Backend,
			"path":      cfg.StorePath(),
			"namespace": cfg.Store.Namespace,
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
		},
		"display": map[string]any{
			"time_format": cfg.Display.TimeFormat,
		},
	}

	// Encode to TOML
	if err := toml.NewEncoder(w).Encode(output); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
