package utils

import (
	"fmt"
	"time"
)

const dateKeyLayout = "2006-01-02"

// DateKey formats t as the local calendar date (YYYY-MM-DD) in loc. All daily
// grouping in the app goes through this so "today" always means the user's
// today, not UTC's.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateKeyLayout)
}

// DayRange returns the half-open interval [start, end) of the local day named
// by dateKey.
func DayRange(dateKey string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateKeyLayout, dateKey, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("不正な日付です: %s", dateKey)
	}
	return start, start.AddDate(0, 0, 1), nil
}

// LoadLocation resolves an IANA timezone name, falling back to UTC when the
// name is empty or unknown.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
