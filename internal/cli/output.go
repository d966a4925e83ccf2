package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/task-tracker/internal/domain"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// entityView is the structured representation of an entity for json and yaml output.
// Fields are ordered to minimize memory padding.
type entityView struct {
	Start       *time.Time    `json:"start,omitempty" yaml:"start,omitempty"`
	End         *time.Time    `json:"end,omitempty" yaml:"end,omitempty"`
	Kind        domain.Kind   `json:"kind" yaml:"kind"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Status      domain.Status `json:"status" yaml:"status"`
	Duration    string        `json:"duration,omitempty" yaml:"duration,omitempty"`
	Subtasks    []int         `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
	ID          int           `json:"id" yaml:"id"`
	EpicID      int           `json:"epicId,omitempty" yaml:"epicId,omitempty"`
}

func newEntityView(e domain.Entity) entityView {
	base := e.Base()
	v := entityView{
		Start:       base.Start,
		Kind:        e.Kind(),
		Title:       base.Title,
		Description: base.Description,
		Status:      base.Status,
		ID:          e.Identity(),
	}
	if base.Duration != nil {
		v.Duration = base.Duration.String()
	}
	if _, end, ok := e.Span(); ok {
		v.End = &end
	}
	switch x := e.(type) {
	case *domain.Epic:
		v.Subtasks = x.SubtaskList()
	case *domain.Subtask:
		v.EpicID = x.EpicID
	}
	return v
}

func newEntityViews[E domain.Entity](entities []E) []entityView {
	views := make([]entityView, 0, len(entities))
	for _, e := range entities {
		views = append(views, newEntityView(e))
	}
	return views
}

// addFormatFlag registers --format on a command.
func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "o", formatText, "Output format: text, json or yaml")
}

// writeStructured writes v as json or yaml.
// It returns false when format is text and the caller should print its own output.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatText, "":
		return false, nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("encode json: %w", err)
		}
		return true, nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("encode yaml: %w", err)
		}
		return true, enc.Close()
	default:
		return true, fmt.Errorf("unknown format %q (use text, json or yaml)", format)
	}
}

// parseID parses an entity ID argument. A leading # is accepted.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be positive", s)
	}
	return id, nil
}

// parseTime parses a flag value with domain.ParseLocalTime.
func parseTime(s string) (time.Time, error) {
	return domain.ParseLocalTime(s)
}

// scheduleFlags holds the --start and --duration values of a command.
type scheduleFlags struct {
	Start    string
	Duration time.Duration
}

func (f *scheduleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Start, "start", "", "Start time (e.g. 2025-03-10T09:00)")
	cmd.Flags().DurationVar(&f.Duration, "duration", 0, "Planned duration (e.g. 1h30m)")
}

// values returns the parsed flags, nil for flags that were not given.
func (f *scheduleFlags) values(cmd *cobra.Command) (*time.Time, *time.Duration, error) {
	var start *time.Time
	var duration *time.Duration
	if cmd.Flags().Changed("start") {
		t, err := parseTime(f.Start)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if cmd.Flags().Changed("duration") {
		d := f.Duration
		duration = &d
	}
	return start, duration, nil
}

// formatDuration formats a duration in a compact human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d%time.Hour == 0 || d >= 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func formatTime(t *time.Time, layout string) string {
	if t == nil {
		return "-"
	}
	return t.Format(layout)
}

// printEntityList prints entities as an aligned table.
func printEntityList(w io.Writer, entities []domain.Entity, layout string) {
	if len(entities) == 0 {
		_, _ = fmt.Fprintln(w, "No entries.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tKIND\tEPIC\tSTATUS\tSTART\tDURATION\tTITLE")

	// Rows
	for _, e := range entities {
		base := e.Base()

		epicStr := "-"
		if s, ok := e.(*domain.Subtask); ok {
			epicStr = fmt.Sprintf("%d", s.EpicID)
		}

		durationStr := "-"
		if base.Duration != nil {
			durationStr = formatDuration(*base.Duration)
		} else if start, end, ok := e.Span(); ok {
			durationStr = formatDuration(end.Sub(start))
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Identity(),
			e.Kind().Display(),
			epicStr,
			base.Status.Display(),
			formatTime(base.Start, layout),
			durationStr,
			base.Title,
		)
	}
}

// printEntityDetails prints one entity with its epic or subtasks.
func printEntityDetails(w io.Writer, e domain.Entity, epic *domain.Epic, subtasks []*domain.Subtask, layout string) {
	base := e.Base()

	// Header
	_, _ = fmt.Fprintf(w, "# %s %d: %s\n\n", e.Kind().Display(), e.Identity(), base.Title)

	// Description
	if base.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", base.Description)
	}

	// Fields
	_, _ = fmt.Fprintf(w, "Status: %s\n", base.Status.Display())
	_, _ = fmt.Fprintf(w, "Start: %s\n", formatTime(base.Start, layout))
	if base.Duration != nil {
		_, _ = fmt.Fprintf(w, "Duration: %s\n", base.Duration)
	}
	if _, end, ok := e.Span(); ok {
		_, _ = fmt.Fprintf(w, "End: %s\n", end.Format(layout))
	}
	if epic != nil {
		_, _ = fmt.Fprintf(w, "Epic: #%d %s\n", epic.ID, epic.Title)
	}

	// Subtasks
	if e.Kind() == domain.KindEpic {
		if len(subtasks) == 0 {
			_, _ = fmt.Fprintln(w, "\nSubtasks: none")
			return
		}
		_, _ = fmt.Fprintln(w, "\nSubtasks:")
		for _, s := range subtasks {
			_, _ = fmt.Fprintf(w, "  #%d [%s] %s\n", s.ID, s.Status.Display(), s.Title)
		}
	}
}
