package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timetable/internal/constants"
	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/store"
	"github.com/julianstephens/timetable/internal/tui/components/profile"
	"github.com/julianstephens/timetable/internal/tui/components/timetable"
)

type AddFormModel struct {
	Name string
}

type Model struct {
	ctx           context.Context
	store         *store.Store
	now           func() time.Time
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	timetable     timetable.Model
	profile       profile.Model
	form          *huh.Form
	addForm       *AddFormModel
	deleteTarget  *models.Entry
	loading       bool
	flash         string
	flashErr      bool
	quitting      bool
	width         int
	height        int
}

// NewModel builds the TUI over st. now decides which weekday is today and
// should already be in the user's timezone.
func NewModel(ctx context.Context, st *store.Store, user models.User, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	today := now().Weekday()
	entries := st.Entries()
	pm := profile.New(user)
	pm.SetEntries(entries, today)

	return Model{
		ctx:       ctx,
		store:     st,
		now:       now,
		state:     constants.StateTimetable,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		timetable: timetable.New(entries, today),
		profile:   pm,
		loading:   true,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == constants.StateTimetable {
		keys = append(keys, m.keys.Yes, m.keys.No, m.keys.Add, m.keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Reload}
	var actions []key.Binding
	if m.state == constants.StateTimetable {
		actions = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Yes, m.keys.No, m.keys.Add, m.keys.Delete}
	}
	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// refresh copies the store's entries into the views.
func (m *Model) refresh() {
	today := m.now().Weekday()
	entries := m.store.Entries()
	m.timetable.SetEntries(entries, today)
	m.profile.SetEntries(entries, today)
}

func (m *Model) setFlash(msg string, isErr bool) {
	m.flash = msg
	m.flashErr = isErr
}

func (m *Model) newAddForm() *huh.Form {
	m.addForm = &AddFormModel{}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New action").
				Placeholder("e.g. Read 20 pages").
				Value(&m.addForm.Name),
		),
	)
}
