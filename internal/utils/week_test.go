package utils

import (
	"testing"
	"time"
)

func TestTodayName(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-10-12", "Monday"},
		{"2026-10-14", "Wednesday"},
		{"2026-10-17", "Saturday"},
		{"2026-10-18", "Sunday"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, _ := time.ParseInLocation("2006-01-02", tt.date, time.UTC)
			if got := TodayName(d.Add(15 * time.Hour)); got != tt.want {
				t.Errorf("TodayName(%s) = %s, want %s", tt.date, got, tt.want)
			}
		})
	}
}

func TestCurrentWeekMonday(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "monday returns same day at midnight",
			now:  time.Date(2026, 10, 12, 18, 30, 0, 0, loc),
			want: time.Date(2026, 10, 12, 0, 0, 0, 0, loc),
		},
		{
			name: "midweek",
			now:  time.Date(2026, 10, 14, 9, 0, 0, 0, loc),
			want: time.Date(2026, 10, 12, 0, 0, 0, 0, loc),
		},
		{
			name: "sunday belongs to the preceding monday",
			now:  time.Date(2026, 10, 18, 23, 59, 0, 0, loc),
			want: time.Date(2026, 10, 12, 0, 0, 0, 0, loc),
		},
		{
			name: "crosses a month boundary",
			now:  time.Date(2026, 11, 1, 12, 0, 0, 0, loc),
			want: time.Date(2026, 10, 26, 0, 0, 0, 0, loc),
		},
		{
			name: "crosses a year boundary",
			now:  time.Date(2027, 1, 2, 8, 0, 0, 0, loc),
			want: time.Date(2026, 12, 28, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.now
			got := CurrentWeekMonday(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("CurrentWeekMonday(%v) = %v, want %v", tt.now, got, tt.want)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("CurrentWeekMonday() weekday = %s, want Monday", got.Weekday())
			}
			if !tt.now.Equal(before) {
				t.Errorf("CurrentWeekMonday() modified its input")
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{input: "Monday", want: time.Monday},
		{input: "tue", want: time.Tuesday},
		{input: " SUNDAY ", want: time.Sunday},
		{input: "sat", want: time.Saturday},
		{input: "funday", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDay(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
