package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/timetable/internal/store"
	"github.com/julianstephens/timetable/internal/tui"
)

type TUICmd struct{}

func (c *TUICmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	clock := ctx.clock()
	st := store.New(ctx.Client(session), session.UserID(), store.WithClock(clock))

	// The model's Init performs the first load.
	p := tea.NewProgram(tui.NewModel(ctx.Context(), st, session.CurrentUser(), clock), tea.WithAltScreen(), tea.WithContext(ctx.Context()))
	_, err = p.Run()
	return err
}
