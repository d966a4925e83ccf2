package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgEntitiesLoaded:
		m.entities = msg.Entities
		m.updateTable()
		return m, nil

	case MsgScheduleLoaded:
		m.schedule = msg.Entries
		m.planned = msg.Planned
		m.updateTable()
		return m, nil

	case MsgHistoryLoaded:
		m.history = msg.Entities
		return m, nil

	case MsgDetailLoaded:
		m.detail = msg.Detail
		m.mode = ModeDetail
		m.err = nil
		// Opening an entity changes the history.
		return m, m.loadHistory()

	case MsgEntityDeleted:
		m.mode = ModeNormal
		m.confirmID = 0
		m.detail = nil
		m.err = nil
		return m, m.refresh()

	case MsgReloaded:
		m.err = nil
		return m, m.refresh()

	case MsgError:
		m.err = msg.Err
		if m.mode == ModeConfirm {
			m.mode = ModeNormal
			m.confirmID = 0
		}
		return m, nil
	}

	return m, nil
}

// handleKeyMsg dispatches key presses by mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeDetail:
		return m.handleDetailMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeNormal:
		return m.handleNormalMode(msg)
	}
	return m, nil
}

// handleNormalMode handles keys while browsing the table.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.view = m.view.Next()
		m.table.SetCursor(0)
		m.updateTable()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()

	case key.Matches(msg, m.keys.Enter):
		e := m.SelectedEntity()
		if e == nil {
			return m, nil
		}
		return m, m.showEntity(e.Identity())

	case key.Matches(msg, m.keys.Delete):
		e := m.SelectedEntity()
		if e == nil {
			return m, nil
		}
		m.confirmID = e.Identity()
		m.mode = ModeConfirm
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.err = nil
		return m, nil
	}

	// Navigation is handled by the table.
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleDetailMode handles keys while the detail pane is open.
func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Enter):
		m.mode = ModeNormal
		m.detail = nil
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.detail == nil {
			return m, nil
		}
		m.confirmID = m.detail.Entity.Identity()
		m.mode = ModeConfirm
		return m, nil
	}
	return m, nil
}

// handleConfirmMode handles the delete confirmation dialog.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) {
		id := m.confirmID
		if id == 0 {
			m.mode = ModeNormal
			return m, nil
		}
		return m, m.deleteEntity(id)
	}

	// Any other key cancels.
	m.mode = ModeNormal
	if m.detail != nil {
		m.mode = ModeDetail
	}
	m.confirmID = 0
	return m, nil
}

// handleHelpMode closes the help overlay.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	m.mode = ModeNormal
	return m, nil
}

// confirmPrompt returns the question shown in the confirm dialog.
func (m *Model) confirmPrompt() string {
	for _, e := range m.entities {
		if e.Identity() == m.confirmID {
			return fmt.Sprintf("Delete %s #%d %q?", e.Kind().Display(), e.Identity(), e.Base().Title)
		}
	}
	return fmt.Sprintf("Delete #%d?", m.confirmID)
}
