package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/task-tracker/internal/app"
	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// historyStripSize is the number of recent visits shown under the table.
const historyStripSize = 5

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	detail    *usecase.ShowEntityOutput
	err       error

	// State (slices - contain pointers)
	entities []domain.Entity
	schedule []domain.Entity
	history  []domain.Entity
	rows     []domain.Entity // Entities behind the table rows, in row order

	// Components (structs with pointers)
	keys   KeyMap
	styles Styles
	help   help.Model
	table  table.Model

	// Numeric state (smaller types last)
	planned   time.Duration
	mode      Mode
	view      View
	width     int
	height    int
	confirmID int
}

// New creates a new TUI Model with the given container.
func New(c *app.Container) *Model {
	styles := DefaultStyles()

	tableStyles := table.DefaultStyles()
	tableStyles.Header = styles.TableHeader
	tableStyles.Selected = styles.TableSelected

	t := table.New(
		table.WithColumns(columns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(tableStyles),
	)

	return &Model{
		container: c,
		keys:      DefaultKeyMap(),
		styles:    styles,
		help:      help.New(),
		table:     t,
		mode:      ModeNormal,
		view:      ViewEntities,
	}
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadEntities(),
		m.loadSchedule(),
		m.loadHistory(),
	)
}

// loadEntities returns a command that loads every entity.
func (m *Model) loadEntities() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ListEntitiesUseCase().Execute(context.Background(), usecase.ListEntitiesInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgEntitiesLoaded{Entities: out.Entities}
	}
}

// loadSchedule returns a command that loads the prioritized schedule.
func (m *Model) loadSchedule() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ShowScheduleUseCase().Execute(context.Background(), usecase.ShowScheduleInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgScheduleLoaded{Entries: out.Entries, Planned: out.Planned}
	}
}

// loadHistory returns a command that loads the most recent visits.
func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ShowHistoryUseCase().Execute(context.Background(), usecase.ShowHistoryInput{Limit: historyStripSize})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgHistoryLoaded{Entities: out.Entities}
	}
}

// showEntity returns a command that opens an entity. Opening records a visit.
func (m *Model) showEntity(id int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ShowEntityUseCase().Execute(context.Background(), usecase.ShowEntityInput{ID: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgDetailLoaded{Detail: out}
	}
}

// deleteEntity returns a command that deletes an entity of any kind.
func (m *Model) deleteEntity(id int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.DeleteEntityUseCase().Execute(context.Background(), usecase.DeleteEntityInput{ID: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgEntityDeleted{ID: out.ID, Cascaded: out.Cascaded}
	}
}

// reload returns a command that discards cached state and reads the store again.
func (m *Model) reload() tea.Cmd {
	return func() tea.Msg {
		if m.container.Reloader != nil {
			if err := m.container.Reloader.Reload(); err != nil {
				return MsgError{Err: fmt.Errorf("reload: %w", err)}
			}
		}
		return MsgReloaded{}
	}
}

// refresh reloads every list shown by the TUI.
func (m *Model) refresh() tea.Cmd {
	return tea.Batch(m.loadEntities(), m.loadSchedule(), m.loadHistory())
}

// SelectedEntity returns the entity under the cursor, or nil if none.
func (m *Model) SelectedEntity() domain.Entity {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	return m.rows[i]
}

// updateTable fills the table with the entities of the current view.
func (m *Model) updateTable() {
	if m.view == ViewSchedule {
		m.rows = m.schedule
	} else {
		m.rows = m.entities
	}

	layout := m.timeFormat()
	rows := make([]table.Row, 0, len(m.rows))
	for _, e := range m.rows {
		rows = append(rows, entityRow(e, layout))
	}
	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// updateLayoutSizes resizes the table to the window.
func (m *Model) updateLayoutSizes() {
	m.table.SetColumns(columns(m.width - 4))
	m.table.SetWidth(max(m.width-4, 0))
	// Header, tabs, history strip and footer take about ten lines.
	m.table.SetHeight(max(m.height-12, 3))
}

// fixedColumnsWidth is the total width of all columns except the title.
const fixedColumnsWidth = 5 + 8 + 5 + 12 + 16 + 9

// columns returns the table columns for a total width.
func columns(width int) []table.Column {
	titleWidth := max(width-fixedColumnsWidth-2*7, 20)
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Kind", Width: 8},
		{Title: "Epic", Width: 5},
		{Title: "Status", Width: 12},
		{Title: "Start", Width: 16},
		{Title: "Duration", Width: 9},
		{Title: "Title", Width: titleWidth},
	}
}

// entityRow converts an entity into a table row.
func entityRow(e domain.Entity, layout string) table.Row {
	base := e.Base()

	epic := "-"
	if s, ok := e.(*domain.Subtask); ok {
		epic = strconv.Itoa(s.EpicID)
	}

	start := "-"
	if base.Start != nil {
		start = base.Start.Format(layout)
	}

	duration := "-"
	if s, end, ok := e.Span(); ok {
		duration = end.Sub(s).String()
	}

	return table.Row{
		strconv.Itoa(e.Identity()),
		e.Kind().Display(),
		epic,
		base.Status.Display(),
		start,
		duration,
		base.Title,
	}
}
