package utils

import (
	"fmt"
	"strings"
	"time"
)

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// TodayName returns the day-of-week name of now in now's location.
func TodayName(now time.Time) string {
	return dayNames[now.Weekday()]
}

// Today returns the current weekday on the system clock.
func Today() time.Weekday {
	return time.Now().Weekday()
}

// CurrentWeekMonday returns the Monday at midnight of the week containing now,
// in now's location. Weeks run Monday through Sunday.
func CurrentWeekMonday(now time.Time) time.Time {
	offset := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		offset = 6
	}
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

// ParseDay parses a weekday name or three-letter abbreviation.
func ParseDay(s string) (time.Weekday, error) {
	part := strings.TrimSpace(strings.ToLower(s))
	for i, name := range dayNames {
		lower := strings.ToLower(name)
		if part == lower || part == lower[:3] {
			return time.Weekday(i), nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid weekday: %s", s)
}
