// Package tui provides the terminal user interface for the task tracker.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal  Mode = iota // Default navigation mode
	ModeDetail              // Entity detail pane
	ModeConfirm             // Delete confirmation dialog
	ModeHelp                // Help overlay mode
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDetail:
		return "detail"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// View selects what the table shows.
type View int

const (
	ViewEntities View = iota // All tasks, epics and subtasks by ID
	ViewSchedule             // Scheduled entries by start time
)

// String returns the tab label of the view.
func (v View) String() string {
	switch v {
	case ViewEntities:
		return "All"
	case ViewSchedule:
		return "Schedule"
	default:
		return "unknown"
	}
}

// Next returns the view shown after v when toggling.
func (v View) Next() View {
	if v == ViewEntities {
		return ViewSchedule
	}
	return ViewEntities
}
