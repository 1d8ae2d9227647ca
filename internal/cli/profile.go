package cli

import (
	"encoding/json"

	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/stats"
)

type ProfileCmd struct {
	JSON bool `help:"Print the statistics as JSON."`
}

func (c *ProfileCmd) Run(ctx *Context) error {
	st, session, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	p := stats.Summarize(st.Entries(), now.Weekday())

	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	user := session.CurrentUser()
	ctx.printf("%s <%s>\n\n", user.Name, user.Email)
	ctx.printf("Actions tracked: %d\n", p.TotalActions)
	ctx.printf("Streak:          %d day(s)\n", p.Streak)
	ctx.printf("Today:           %d%% (%d done, %d skipped, %d pending)\n",
		p.TodayProgress, p.CompletedToday, p.SkippedToday, p.PendingToday)
	ctx.printf("This week:       %d done, %d skipped, %d pending\n\n",
		p.Totals.TotalCompleted, p.Totals.TotalSkipped, p.Totals.TotalPending)

	for _, day := range models.Week {
		b := p.Weekly[day]
		marker := " "
		if day == now.Weekday() {
			marker = "*"
		}
		ctx.printf("%s %-9s %3d%%  %d/%d\n", marker, day, b.Percentage, b.Completed, b.Total)
	}
	return nil
}
