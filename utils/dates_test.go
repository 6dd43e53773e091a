package utils

import (
	"testing"
	"time"
)

func TestDateKeyUsesLocalCalendarDate(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load Asia/Tokyo: %v", err)
	}

	// 2026-08-19 23:00 UTC is already the 20th in Tokyo.
	at := time.Date(2026, 8, 19, 23, 0, 0, 0, time.UTC)

	if got := DateKey(at, time.UTC); got != "2026-08-19" {
		t.Errorf("DateKey UTC = %q, want 2026-08-19", got)
	}
	if got := DateKey(at, tokyo); got != "2026-08-20" {
		t.Errorf("DateKey Tokyo = %q, want 2026-08-20", got)
	}
}

func TestDayRangeIsHalfOpen(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load Asia/Tokyo: %v", err)
	}

	from, to, err := DayRange("2026-08-20", tokyo)
	if err != nil {
		t.Fatalf("DayRange failed: %v", err)
	}

	if !from.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, tokyo)) {
		t.Errorf("from = %v", from)
	}
	if !to.Equal(time.Date(2026, 8, 21, 0, 0, 0, 0, tokyo)) {
		t.Errorf("to = %v", to)
	}

	// Local midnight of the 20th belongs to the range; the next midnight
	// does not.
	if from.After(from) || !from.Before(to) {
		t.Error("range is not half-open")
	}
	if DateKey(to.Add(-time.Nanosecond), tokyo) != "2026-08-20" {
		t.Error("last instant of the day falls outside DateKey")
	}
}

func TestDayRangeRejectsGarbage(t *testing.T) {
	if _, _, err := DayRange("20-08-2026", time.UTC); err == nil {
		t.Fatal("expected error for malformed date key")
	}
}

func TestLoadLocationFallsBackToUTC(t *testing.T) {
	if got := LoadLocation(""); got != time.UTC {
		t.Errorf("empty name = %v, want UTC", got)
	}
	if got := LoadLocation("Not/AZone"); got != time.UTC {
		t.Errorf("unknown name = %v, want UTC", got)
	}
	if got := LoadLocation("Asia/Tokyo"); got.String() != "Asia/Tokyo" {
		t.Errorf("valid name = %v", got)
	}
}
