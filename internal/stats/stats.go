// Package stats computes completion statistics over a week of entries.
// Every function is pure: the reference day is always passed in.
package stats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/timetable/internal/models"
)

// streakLookback bounds the backward walk to one tracked week.
const streakLookback = 7

// Breakdown is the per-day tally of an entry collection.
type Breakdown struct {
	Completed  int `json:"completed"`
	Skipped    int `json:"skipped"`
	Pending    int `json:"pending"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Totals sums each status across the full week grid.
type Totals struct {
	TotalCompleted int `json:"totalCompleted"`
	TotalSkipped   int `json:"totalSkipped"`
	TotalPending   int `json:"totalPending"`
}

// Profile is the aggregate shown on the profile view.
type Profile struct {
	TotalActions   int                        `json:"totalActions"`
	CompletedToday int                        `json:"completedToday"`
	SkippedToday   int                        `json:"skippedToday"`
	PendingToday   int                        `json:"pendingToday"`
	TodayProgress  int                        `json:"todayProgress"`
	Totals         Totals                     `json:"totals"`
	Weekly         map[time.Weekday]Breakdown `json:"-"` // see MarshalJSON
	Streak         int                        `json:"streak"`
}

// profileFields drops Profile's methods so the JSON codecs below can reuse
// the struct tags without recursing.
type profileFields Profile

type profileJSON struct {
	profileFields
	Weekly map[string]Breakdown `json:"weekly"`
}

// MarshalJSON encodes Weekly keyed by day name ("Sunday" … "Saturday").
func (p Profile) MarshalJSON() ([]byte, error) {
	out := profileJSON{profileFields: profileFields(p)}
	if p.Weekly != nil {
		out.Weekly = make(map[string]Breakdown, len(p.Weekly))
		for day, b := range p.Weekly {
			out.Weekly[day.String()] = b
		}
	}
	return json.Marshal(out)
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var in profileJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = Profile(in.profileFields)
	p.Weekly = nil
	if in.Weekly == nil {
		return nil
	}
	p.Weekly = make(map[time.Weekday]Breakdown, len(in.Weekly))
	for name, b := range in.Weekly {
		day, ok := weekdayByName(name)
		if !ok {
			return fmt.Errorf("unknown weekday %q", name)
		}
		p.Weekly[day] = b
	}
	return nil
}

func weekdayByName(name string) (time.Weekday, bool) {
	for _, day := range models.Week {
		if day.String() == name {
			return day, true
		}
	}
	return 0, false
}

// percent returns round(100*part/total) with halves rounded up, or 0 for an empty total.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

// DailyProgress returns the share of entries completed on day, as a whole percentage.
func DailyProgress(entries []models.Entry, day time.Weekday) int {
	return DailyBreakdown(entries, day).Percentage
}

// DailyBreakdown tallies the statuses of every entry on day.
func DailyBreakdown(entries []models.Entry, day time.Weekday) Breakdown {
	b := Breakdown{Total: len(entries)}
	for _, e := range entries {
		switch e.Status.Get(day) {
		case models.StatusYes:
			b.Completed++
		case models.StatusNo:
			b.Skipped++
		default:
			b.Pending++
		}
	}
	b.Percentage = percent(b.Completed, b.Total)
	return b
}

// WeeklyBreakdown returns a breakdown for each of the seven days.
func WeeklyBreakdown(entries []models.Entry) map[time.Weekday]Breakdown {
	weekly := make(map[time.Weekday]Breakdown, len(models.Week))
	for _, day := range models.Week {
		weekly[day] = DailyBreakdown(entries, day)
	}
	return weekly
}

// ComputeTotals counts statuses over the whole 7×N grid.
func ComputeTotals(entries []models.Entry) Totals {
	var t Totals
	for _, b := range WeeklyBreakdown(entries) {
		t.TotalCompleted += b.Completed
		t.TotalSkipped += b.Skipped
		t.TotalPending += b.Pending
	}
	return t
}

// Streak counts consecutive days, walking backward from today, on which at
// least one entry was completed. A today with no completion yet adds nothing
// but does not end the walk; the first earlier day without a completion does.
// The walk wraps around the tracked week and covers at most seven days.
func Streak(entries []models.Entry, today time.Weekday) int {
	if len(entries) == 0 {
		return 0
	}

	streak := 0
	if anyCompleted(entries, today) {
		streak = 1
	}

	for i := 1; i < streakLookback; i++ {
		day := time.Weekday((int(today) - i + 7) % 7)
		if !anyCompleted(entries, day) {
			break
		}
		streak++
	}

	return streak
}

func anyCompleted(entries []models.Entry, day time.Weekday) bool {
	for _, e := range entries {
		if e.Status.Get(day) == models.StatusYes {
			return true
		}
	}
	return false
}

// Summarize builds the profile aggregate for today.
func Summarize(entries []models.Entry, today time.Weekday) Profile {
	todays := DailyBreakdown(entries, today)
	return Profile{
		TotalActions:   len(entries),
		CompletedToday: todays.Completed,
		SkippedToday:   todays.Skipped,
		PendingToday:   todays.Pending,
		TodayProgress:  todays.Percentage,
		Totals:         ComputeTotals(entries),
		Weekly:         WeeklyBreakdown(entries),
		Streak:         Streak(entries, today),
	}
}
