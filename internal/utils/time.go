package utils

import (
	"fmt"
	"time"
)

// LoadLocation resolves an IANA zone name. "" and "Local" mean the
// system zone.
func LoadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// NowInTimezone is the current instant as seen in the named zone.
func NowInTimezone(name string) (time.Time, error) {
	loc, err := LoadLocation(name)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}

func ValidateTimezone(name string) bool {
	_, err := LoadLocation(name)
	return err == nil
}

// Clock returns a wall clock in the named zone, falling back to the system
// zone when the name does not resolve.
func Clock(name string) func() time.Time {
	loc, err := LoadLocation(name)
	if err != nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}
