package cli

import (
	"io"
	"strings"
	"time"

	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/stats"
	"github.com/julianstephens/timetable/internal/utils"
)

type WeekCmd struct {
	IDs bool `help:"Show entry ids for use with mark and delete." default:"true" negatable:""`
}

func (c *WeekCmd) Run(ctx *Context) error {
	st, _, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	entries := st.Entries()
	ctx.printf("Week of %s\n\n", utils.CurrentWeekMonday(now).Format("Mon 02 Jan 2006"))
	if len(entries) == 0 {
		ctx.printf("No actions yet. Add one with 'timetable add <name>'.\n")
		return nil
	}
	renderWeek(ctx.Out, entries, now.Weekday(), c.IDs)

	b := stats.DailyBreakdown(entries, now.Weekday())
	ctx.printf("\nToday (%s): %d%% done, %d completed, %d skipped, %d pending\n",
		utils.TodayName(now), b.Percentage, b.Completed, b.Skipped, b.Pending)
	return nil
}

func statusCell(s models.DayStatus) string {
	switch s {
	case models.StatusYes:
		return "✓"
	case models.StatusNo:
		return "✗"
	default:
		return "·"
	}
}

// renderWeek writes one row per entry with a column per day, today's
// column bracketed.
func renderWeek(w io.Writer, entries []models.Entry, today time.Weekday, showIDs bool) {
	width := len("Action")
	for _, e := range entries {
		if n := len([]rune(e.Action)); n > width {
			width = n
		}
	}

	var sb strings.Builder
	if showIDs {
		sb.WriteString(pad("ID", idColumnWidth))
	}
	sb.WriteString("   ")
	sb.WriteString(pad("Action", width))
	for _, day := range models.Week {
		sb.WriteString(dayHeader(day, today))
	}
	sb.WriteString("\n")

	for _, e := range entries {
		if showIDs {
			sb.WriteString(pad(shortID(e.ID), idColumnWidth))
		}
		sb.WriteString(utils.TaskIcon(e.Action))
		sb.WriteString(" ")
		sb.WriteString(pad(e.Action, width))
		for _, day := range models.Week {
			cell := statusCell(e.Status.Get(day))
			if day == today {
				sb.WriteString("  [" + cell + "] ")
			} else {
				sb.WriteString("   " + cell + "  ")
			}
		}
		sb.WriteString("\n")
	}
	io.WriteString(w, sb.String())
}

const idColumnWidth = 16

func dayHeader(day, today time.Weekday) string {
	abbr := day.String()[:3]
	if day == today {
		return " [" + abbr + "]"
	}
	return "  " + abbr + " "
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-n+1)
}
