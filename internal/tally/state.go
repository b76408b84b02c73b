package tally

// DefaultSetSize is the number of counts in one completed set.
const DefaultSetSize = 108

// State is the full set of counters for one practitioner.
type State struct {
	SessionCount  int64
	TodayCount    int64
	WeekCount     int64
	LifetimeCount int64
	SetCount      int64
	TodaySetCount int64
	WeekSetCount  int64
	SoundEnabled  bool
	LastResetDay  string
	LastResetWeek int
}

// Rollover reports which period counters a reconciliation zeroed.
type Rollover struct {
	Day  bool
	Week bool
}

// Any reports whether either period rolled over.
func (r Rollover) Any() bool {
	return r.Day || r.Week
}

// Reconcile zeroes the day and week counters whose marker no longer matches
// the given day key and week number. The two checks are independent.
func (s *State) Reconcile(day string, week int) Rollover {
	var r Rollover
	if day != s.LastResetDay {
		s.TodayCount = 0
		s.TodaySetCount = 0
		s.LastResetDay = day
		r.Day = true
	}
	if week != s.LastResetWeek {
		s.WeekCount = 0
		s.WeekSetCount = 0
		s.LastResetWeek = week
		r.Week = true
	}
	return r
}

// Increment adds one count to every period and reports whether the new
// lifetime count completed a set of setSize.
func (s *State) Increment(setSize int64) bool {
	if setSize < 1 {
		setSize = DefaultSetSize
	}
	s.SessionCount++
	s.TodayCount++
	s.WeekCount++
	s.LifetimeCount++

	if s.LifetimeCount%setSize != 0 {
		return false
	}
	s.SetCount++
	s.TodaySetCount++
	s.WeekSetCount++
	return true
}

// ResetSession zeroes the session counter only.
func (s *State) ResetSession() {
	s.SessionCount = 0
}

// ToggleSound flips the sound flag and returns the new value.
func (s *State) ToggleSound() bool {
	s.SoundEnabled = !s.SoundEnabled
	return s.SoundEnabled
}

// ProgressInSet returns how many counts of the current set are done.
func (s State) ProgressInSet(setSize int64) int64 {
	if setSize < 1 {
		setSize = DefaultSetSize
	}
	return s.LifetimeCount % setSize
}
