package timetable

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/stats"
	"github.com/julianstephens/timetable/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236"))

	yesStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	noStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			MarginTop(1)
)

const cellWidth = 5

type KeyMap struct {
	Up   key.Binding
	Down key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model is the weekly grid: one row per action, one column per day.
type Model struct {
	entries []models.Entry
	today   time.Weekday
	cursor  int
	keys    KeyMap
	width   int
	height  int
}

func New(entries []models.Entry, today time.Weekday) Model {
	return Model{entries: entries, today: today, keys: DefaultKeyMap()}
}

// SetEntries replaces the rows, keeping the cursor in range.
func (m *Model) SetEntries(entries []models.Entry, today time.Weekday) {
	m.entries = entries
	m.today = today
	if m.cursor >= len(entries) {
		m.cursor = len(entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (models.Entry, bool) {
	if len(m.entries) == 0 {
		return models.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.entries) == 0 {
		return "\n  No actions yet.\n  Press 'a' to add one."
	}

	nameWidth := len("Action")
	for _, e := range m.entries {
		if w := lipgloss.Width(e.Action); w > nameWidth {
			nameWidth = w
		}
	}
	nameCol := lipgloss.NewStyle().Width(nameWidth + 5)
	cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)

	var rows []string
	header := []string{nameCol.Render(headerStyle.Render("Action"))}
	for _, day := range models.Week {
		style := headerStyle
		if day == m.today {
			style = todayStyle
		}
		header = append(header, cell.Render(style.Render(day.String()[:3])))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for i, e := range m.entries {
		cols := []string{nameCol.Render(utils.TaskIcon(e.Action) + " " + e.Action)}
		for _, day := range models.Week {
			cols = append(cols, cell.Render(renderStatus(e.Status.Get(day))))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
		if i == m.cursor {
			row = cursorStyle.Render(row)
		}
		rows = append(rows, row)
	}

	b := stats.DailyBreakdown(m.entries, m.today)
	progress := progressStyle.Render(fmt.Sprintf("%s %d%% today · %d done · %d pending",
		progressBar(b.Percentage, 20), b.Percentage, b.Completed, b.Pending))

	return lipgloss.JoinVertical(lipgloss.Left, append(rows, progress)...)
}

func renderStatus(s models.DayStatus) string {
	switch s {
	case models.StatusYes:
		return yesStyle.Render("✓")
	case models.StatusNo:
		return noStyle.Render("✗")
	default:
		return pendingStyle.Render("·")
	}
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
