package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DayStatus is the completion state of one action on one day.
type DayStatus string

const (
	StatusPending DayStatus = ""
	StatusYes     DayStatus = "yes"
	StatusNo      DayStatus = "no"
)

// Week is the canonical display order of the tracked days.
var Week = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// ParseDayStatus accepts yes/no (or y/n) in any case.
func ParseDayStatus(s string) (DayStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return StatusYes, nil
	case "no", "n":
		return StatusNo, nil
	default:
		return StatusPending, fmt.Errorf("invalid status %q (expected yes or no)", s)
	}
}

// IsSet reports whether the day has been marked.
func (s DayStatus) IsSet() bool {
	return s == StatusYes || s == StatusNo
}

// CanTransition reports whether a day in state s may be marked with to.
// Days only move out of pending; a marked day is final.
func (s DayStatus) CanTransition(to DayStatus) bool {
	return s == StatusPending && to.IsSet()
}

func (s DayStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case StatusPending:
		return []byte("null"), nil
	case StatusYes, StatusNo:
		return json.Marshal(string(s))
	default:
		return nil, fmt.Errorf("invalid day status %q", string(s))
	}
}

func (s *DayStatus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = StatusPending
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid day status: %w", err)
	}
	switch DayStatus(raw) {
	case StatusYes, StatusNo:
		*s = DayStatus(raw)
		return nil
	default:
		return fmt.Errorf("invalid day status %q", raw)
	}
}

// Status holds one DayStatus per weekday, indexed by time.Weekday.
// All seven days always exist; a zero Status is all pending.
type Status [7]DayStatus

// Get returns the status for day.
func (s Status) Get(day time.Weekday) DayStatus {
	return s[day]
}

// With returns a copy of s with day set to v. s is not modified.
func (s Status) With(day time.Weekday, v DayStatus) Status {
	s[day] = v
	return s
}

func (s Status) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range Week {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(day.String())
		buf.Write(key)
		buf.WriteByte(':')
		val, err := s[day].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a day-name keyed object. Missing days decode as
// pending; unknown keys are rejected.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid status map: %w", err)
	}

	var out Status
	for key, val := range raw {
		day, ok := weekdayByName[key]
		if !ok {
			return fmt.Errorf("invalid status map: unknown day %q", key)
		}
		if err := out[day].UnmarshalJSON(val); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	*s = out
	return nil
}

var weekdayByName = func() map[string]time.Weekday {
	m := make(map[string]time.Weekday, len(Week))
	for _, day := range Week {
		m[day.String()] = day
	}
	return m
}()
