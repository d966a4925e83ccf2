package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/task-tracker/internal/domain"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeDetail:
		content = m.viewDetail()
	case ModeConfirm:
		content = m.viewConfirm()
	case ModeNormal:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

// viewMain renders the table with header, history strip and footer.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(m.styles.HistoryLabel.Render("No entries.") + "\n")
	} else {
		b.WriteString(m.table.View() + "\n")
	}

	if m.view == ViewSchedule && len(m.schedule) > 0 {
		b.WriteString(m.styles.HistoryLabel.Render(fmt.Sprintf("Planned: %s", m.planned)) + "\n")
	}

	b.WriteString(m.viewHistory())
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return b.String()
}

// viewHeader renders the title and the view tabs.
func (m *Model) viewHeader() string {
	tabs := make([]string, 0, 2)
	for _, v := range []View{ViewEntities, ViewSchedule} {
		label := v.String()
		switch v {
		case ViewEntities:
			label = fmt.Sprintf("%s (%d)", label, len(m.entities))
		case ViewSchedule:
			label = fmt.Sprintf("%s (%d)", label, len(m.schedule))
		}
		if v == m.view {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}

	title := m.styles.Header.Render("Task Tracker")
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// viewHistory renders the recency list, most recent last.
func (m *Model) viewHistory() string {
	label := m.styles.HistoryLabel.Render("History: ")
	if len(m.history) == 0 {
		return m.styles.History.Render(label + m.styles.HistoryLabel.Render("none"))
	}

	items := make([]string, 0, len(m.history))
	for _, e := range m.history {
		items = append(items, fmt.Sprintf("#%d %s", e.Identity(), e.Base().Title))
	}
	return m.styles.History.Render(label + strings.Join(items, " › "))
}

// viewDetail renders the detail pane of the opened entity.
func (m *Model) viewDetail() string {
	if m.detail == nil {
		return m.viewMain()
	}

	e := m.detail.Entity
	base := e.Base()
	layout := m.timeFormat()

	var b strings.Builder
	b.WriteString(m.styles.DetailTitle.Render(fmt.Sprintf("%s #%d: %s", e.Kind().Display(), e.Identity(), base.Title)))
	b.WriteString("\n\n")

	if base.Description != "" {
		b.WriteString(m.styles.DetailDesc.Render(base.Description) + "\n\n")
	}

	field := func(label, value string) {
		b.WriteString(m.styles.DetailLabel.Render(label) + value + "\n")
	}
	field("Status", m.styles.StatusStyle(base.Status).Render(base.Status.Display()))
	if base.Start != nil {
		field("Start", base.Start.Format(layout))
	}
	if start, end, ok := e.Span(); ok {
		field("End", end.Format(layout))
		field("Duration", end.Sub(start).String())
	}
	if m.detail.Epic != nil {
		field("Epic", fmt.Sprintf("#%d %s", m.detail.Epic.ID, m.detail.Epic.Title))
	}

	if e.Kind() == domain.KindEpic {
		b.WriteString("\nSubtasks:\n")
		if len(m.detail.Subtasks) == 0 {
			b.WriteString("  none\n")
		}
		for _, s := range m.detail.Subtasks {
			_, _ = fmt.Fprintf(&b, "  #%d %s %s\n", s.ID, m.styles.StatusStyle(s.Status).Render("["+s.Status.Display()+"]"), s.Title)
		}
	}

	footer := m.styles.Footer.Render("esc: back • d: delete • q: quit")
	return m.styles.Detail.Render(strings.TrimRight(b.String(), "\n")) + "\n" + footer
}

// viewConfirm renders the delete confirmation dialog.
func (m *Model) viewConfirm() string {
	title := m.styles.DialogTitle.Render("Confirm")
	body := m.confirmPrompt()
	if m.confirmIsEpic() {
		body += "\nAll subtasks of the epic are deleted too."
	}
	return m.styles.Dialog.Render(title + "\n\n" + body + "\n\ny: delete • any other key: cancel")
}

// viewHelp renders the full keybinding help.
func (m *Model) viewHelp() string {
	return m.styles.Header.Render("Keys") + "\n" + m.help.FullHelpView(m.keys.FullHelp())
}

// confirmIsEpic reports whether the pending deletion targets an epic.
func (m *Model) confirmIsEpic() bool {
	for _, e := range m.entities {
		if e.Identity() == m.confirmID {
			return e.Kind() == domain.KindEpic
		}
	}
	return false
}

func (m *Model) timeFormat() string {
	if m.container == nil {
		return domain.DefaultTimeFormat
	}
	return m.container.TimeFormat()
}
