package tally

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestWeekNumber(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"2024 starts on a Monday", date(2024, time.January, 1), 1},
		{"Friday before first boundary", date(2024, time.January, 5), 1},
		{"Saturday opens week two", date(2024, time.January, 6), 2},
		{"2023 starts on a Sunday", date(2023, time.January, 1), 1},
		{"2023 first Friday", date(2023, time.January, 6), 1},
		{"2023 first Saturday", date(2023, time.January, 7), 2},
		{"last day of 2023", date(2023, time.December, 31), 53},
		{"mid March Wednesday", date(2024, time.March, 13), 11},
		{"mid March Saturday", date(2024, time.March, 16), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekNumber(tt.t); got != tt.want {
				t.Errorf("WeekNumber(%s) = %d, want %d", tt.t.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestWeekNumberIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 6, 23, 59, 59, 0, time.UTC)
	if WeekNumber(start) != WeekNumber(end) {
		t.Fatalf("week changed within a single day: %d vs %d", WeekNumber(start), WeekNumber(end))
	}
}

func TestDayKey(t *testing.T) {
	if got := DayKey(date(2024, time.March, 5)); got != "2024-3-5" {
		t.Fatalf("DayKey = %q, want 2024-3-5", got)
	}
	if got := DayKey(date(2024, time.December, 25)); got != "2024-12-25" {
		t.Fatalf("DayKey = %q, want 2024-12-25", got)
	}
}

func TestCalendarUsesLocation(t *testing.T) {
	// 02:00 UTC on the 6th is still the 5th in New York.
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	instant := time.Date(2024, time.January, 6, 2, 0, 0, 0, time.UTC)
	cal := NewCalendar(func() time.Time { return instant }, ny)

	if got := cal.Today(); got != "2024-1-5" {
		t.Errorf("Today = %q, want 2024-1-5", got)
	}
	if got := cal.Week(); got != 1 {
		t.Errorf("Week = %d, want 1", got)
	}
}

func TestNewCalendarDefaults(t *testing.T) {
	cal := NewCalendar(nil, nil)
	if cal.Now().IsZero() {
		t.Fatal("default calendar should read the wall clock")
	}
	var zero Calendar
	if zero.Now().IsZero() {
		t.Fatal("zero Calendar should fall back to the wall clock")
	}
}
