package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timetable/internal/constants"
	"github.com/julianstephens/timetable/internal/store"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateTimetable:
		content = docStyle.Render(m.timetable.View())
	case constants.StateProfile:
		content = docStyle.Render(m.profile.View())
	case constants.StateAddAction:
		if m.form != nil {
			content = docStyle.Render(m.form.View())
		}
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs()}
	if !m.store.BackendAvailable() {
		parts = append(parts, bannerStyle.Render("⚠ "+store.MsgOffline))
	}
	parts = append(parts, content)
	if m.flash != "" {
		style := infoStyle
		if m.flashErr {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.flash))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	active := m.state
	if active != constants.StateProfile {
		active = constants.StateTimetable
	}
	for i, title := range []string{"This Week", "Profile"} {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	if m.loading {
		tabs = append(tabs, inactiveTabStyle.Render("loading…"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirmDelete() string {
	action := ""
	if m.deleteTarget != nil {
		action = m.deleteTarget.Action
	}
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete \""+action+"\" and its whole week?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
