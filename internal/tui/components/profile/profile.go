package profile

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/stats"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			MarginRight(1)
)

// Model shows the signed-in user and their weekly statistics.
type Model struct {
	user    models.User
	summary stats.Profile
	today   time.Weekday
}

func New(user models.User) Model {
	return Model{user: user}
}

func (m *Model) SetEntries(entries []models.Entry, today time.Weekday) {
	m.summary = stats.Summarize(entries, today)
	m.today = today
}

func (m Model) Summary() stats.Profile {
	return m.summary
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) View() string {
	p := m.summary
	header := nameStyle.Render(m.user.Name) + "  " + m.user.Email

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Actions", fmt.Sprint(p.TotalActions)),
		card("Today", fmt.Sprintf("%d%%", p.TodayProgress)),
		card("Streak", fmt.Sprintf("%d day(s)", p.Streak)),
	)

	lines := []string{
		line("Completed today", p.CompletedToday),
		line("Skipped today", p.SkippedToday),
		line("Pending today", p.PendingToday),
		"",
		line("Week completed", p.Totals.TotalCompleted),
		line("Week skipped", p.Totals.TotalSkipped),
		line("Week pending", p.Totals.TotalPending),
		"",
	}
	for _, day := range models.Week {
		b := p.Weekly[day]
		label := day.String()
		if day == m.today {
			label += " *"
		}
		lines = append(lines, labelStyle.Render(label)+fmt.Sprintf("%3d%%  %d/%d", b.Percentage, b.Completed, b.Total))
	}

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header, cards}, lines...)...)
}

func card(title, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(title), value))
}

func line(label string, n int) string {
	return labelStyle.Render(label) + fmt.Sprint(n)
}
