package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/timetable/internal/models"
)

type loadedMsg struct {
	err error
}

type addedMsg struct {
	entry models.Entry
	err   error
}

type statusSetMsg struct {
	action string
	value  models.DayStatus
	err    error
}

type deletedMsg struct {
	action string
	err    error
}

// Store calls run off the update loop; each returns a message the loop
// uses to refresh the views.

func (m Model) loadCmd() tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		return loadedMsg{err: st.Load(ctx)}
	}
}

func (m Model) addCmd(name string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		entry, err := st.AddAction(ctx, name)
		return addedMsg{entry: entry, err: err}
	}
}

func (m Model) markCmd(entry models.Entry, value models.DayStatus) tea.Cmd {
	ctx, st := m.ctx, m.store
	today := m.now().Weekday()
	return func() tea.Msg {
		err := st.SetStatus(ctx, entry.ID, today, value, today)
		return statusSetMsg{action: entry.Action, value: value, err: err}
	}
}

func (m Model) deleteCmd(entry models.Entry) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		return deletedMsg{action: entry.Action, err: st.DeleteAction(ctx, entry.ID)}
	}
}
