// Package cli provides the command-line interface for the task tracker.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
)

// Command group IDs.
const (
	groupSetup  = "setup"
	groupEntity = "entity"
	groupView   = "view"
)

// NewRootCommand creates the root command for the tracker.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "Task, epic and subtask tracker",
		Long: `tracker keeps tasks, epics and subtasks in a local store under .tracker/.

Tasks and subtasks may be scheduled with a start time and a duration;
scheduled entries never overlap. An epic's status and time bounds follow its
subtasks. Viewed entries are remembered in a history list.

Run 'tracker init' once per directory before using the other commands.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.ConfigLoader == nil {
				return nil
			}

			// The container already failed on a broken config; this only reports warnings.
			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				if c.Logger != nil && !errors.Is(err, domain.ErrNotInitialized) {
					c.Logger.Warn("reload config", "error", err)
				}
				return nil
			}

			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupEntity, Title: "Entity Management:"},
		&cobra.Group{ID: groupView, Title: "Views:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	migrateCmd := newMigrateCommand(c)
	migrateCmd.GroupID = groupSetup

	// Entity management commands
	taskCmd := newTaskCommand(c)
	taskCmd.GroupID = groupEntity

	epicCmd := newEpicCommand(c)
	epicCmd.GroupID = groupEntity

	subtaskCmd := newSubtaskCommand(c)
	subtaskCmd.GroupID = groupEntity

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupEntity

	// Views
	historyCmd := newHistoryCommand(c)
	historyCmd.GroupID = groupView

	scheduleCmd := newScheduleCommand(c)
	scheduleCmd.GroupID = groupView

	statsCmd := newStatsCommand(c)
	statsCmd.GroupID = groupView

	tuiCmd := newTUICommand(c)
	tuiCmd.GroupID = groupView

	// Add subcommands
	root.AddCommand(
		initCmd,
		configCmd,
		migrateCmd,
		taskCmd,
		epicCmd,
		subtaskCmd,
		importCmd,
		historyCmd,
		scheduleCmd,
		statsCmd,
		tuiCmd,
	)

	return root
}
