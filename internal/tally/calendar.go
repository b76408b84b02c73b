package tally

import (
	"fmt"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// Calendar turns the clock into the day key and week number used as rollover
// markers. Times are interpreted in loc.
type Calendar struct {
	now Clock
	loc *time.Location
}

// NewCalendar returns a calendar reading now in loc. A nil clock means
// time.Now and a nil location means time.Local.
func NewCalendar(now Clock, loc *time.Location) Calendar {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return Calendar{now: now, loc: loc}
}

// SystemCalendar reads the wall clock in the local time zone.
func SystemCalendar() Calendar {
	return NewCalendar(time.Now, time.Local)
}

// Now returns the current time in the calendar's location.
func (c Calendar) Now() time.Time {
	if c.now == nil {
		return time.Now().In(time.Local)
	}
	return c.now().In(c.loc)
}

// Today returns the day key for the current time.
func (c Calendar) Today() string {
	return DayKey(c.Now())
}

// Week returns the week number for the current time.
func (c Calendar) Week() int {
	return WeekNumber(c.Now())
}

// DayKey formats t as YYYY-M-D with no zero padding.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// WeekNumber buckets t into ceil((dayOfYear + weekdayOfJan1 + 1) / 7), with
// dayOfYear starting at 1 and Sunday as weekday 0. This is not ISO-8601: week
// boundaries fall on Saturdays and numbering restarts every January 1st.
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	n := t.YearDay() + int(jan1.Weekday()) + 1
	return (n + 6) / 7
}
