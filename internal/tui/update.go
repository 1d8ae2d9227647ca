package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timetable/internal/constants"
	ierrors "github.com/julianstephens/timetable/internal/errors"
	"github.com/julianstephens/timetable/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.timetable.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case loadedMsg:
		m.loading = false
		m.refresh()
		// A failed load shows up as the offline banner.
		m.setFlash("", false)
		return m, nil

	case addedMsg:
		m.refresh()
		if msg.err != nil {
			m.setFlash(ierrors.Message(msg.err), true)
		} else {
			m.setFlash(fmt.Sprintf("Added %s", msg.entry.Action), false)
		}
		return m, nil

	case statusSetMsg:
		m.refresh()
		if msg.err != nil {
			m.setFlash(ierrors.Message(msg.err), true)
		} else {
			m.setFlash(fmt.Sprintf("Marked %s %s for today", msg.action, msg.value), false)
		}
		return m, nil

	case deletedMsg:
		m.refresh()
		if msg.err != nil {
			m.setFlash(ierrors.Message(msg.err), true)
		} else {
			m.setFlash(fmt.Sprintf("Deleted %s", msg.action), false)
		}
		return m, nil
	}

	switch m.state {
	case constants.StateAddAction:
		return m.updateAddForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab), key.Matches(keyMsg, m.keys.ShiftTab):
		if m.state == constants.StateTimetable {
			m.state = constants.StateProfile
		} else {
			m.state = constants.StateTimetable
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Reload):
		m.loading = true
		return m, m.loadCmd()
	}

	if m.state != constants.StateTimetable {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Add):
		m.previousState = m.state
		m.state = constants.StateAddAction
		m.form = m.newAddForm()
		return m, m.form.Init()
	case key.Matches(keyMsg, m.keys.Delete):
		if entry, ok := m.timetable.Selected(); ok {
			m.deleteTarget = &entry
			m.previousState = m.state
			m.state = constants.StateConfirmDelete
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Yes):
		return m.mark(models.StatusYes)
	case key.Matches(keyMsg, m.keys.No):
		return m.mark(models.StatusNo)
	}

	var cmd tea.Cmd
	m.timetable, cmd = m.timetable.Update(msg)
	return m, cmd
}

// mark sets today's status on the selected entry. A day that is already
// marked stays as it is.
func (m Model) mark(value models.DayStatus) (tea.Model, tea.Cmd) {
	entry, ok := m.timetable.Selected()
	if !ok {
		return m, nil
	}
	today := m.now().Weekday()
	if !entry.Status.Get(today).CanTransition(value) {
		m.setFlash(fmt.Sprintf("%s is already marked for today", entry.Action), true)
		return m, nil
	}
	return m, m.markCmd(entry, value)
}

func (m Model) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = m.previousState
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		name := m.addForm.Name
		m.state = m.previousState
		m.form = nil
		m.addForm = nil
		return m, m.addCmd(name)
	case huh.StateAborted:
		m.state = m.previousState
		m.form = nil
		m.addForm = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		target := m.deleteTarget
		m.deleteTarget = nil
		m.state = m.previousState
		if target == nil {
			return m, nil
		}
		return m, m.deleteCmd(*target)
	case "n", "N", "esc", "q":
		m.deleteTarget = nil
		m.state = m.previousState
	}
	return m, nil
}
