package tally

import (
	"sync"

	"japa/internal/kv"
	"japa/internal/logging"
)

// Increment is the outcome of one count.
type Increment struct {
	State State
	// SetCompleted is true when this count finished a set.
	SetCompleted bool
	// PlayTone is true when the caller should play the count tone.
	PlayTone bool
}

// Option configures a Store.
type Option func(*Store)

// WithCalendar replaces the system calendar.
func WithCalendar(cal Calendar) Option {
	return func(s *Store) {
		s.cal = cal
	}
}

// WithSetSize overrides the number of counts per set. Values below 1 are ignored.
func WithSetSize(n int64) Option {
	return func(s *Store) {
		if n >= 1 {
			s.setSize = n
		}
	}
}

// Store owns a State and keeps it in sync with durable storage.
type Store struct {
	mu      sync.Mutex
	kv      kv.Store
	cal     Calendar
	setSize int64
	state   State
	// unsaved is set while storage lags behind state after a failed write.
	unsaved bool
}

// Open loads the counters from store, reconciles them against the current
// day and week and writes the result back.
func Open(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:      store,
		cal:     SystemCalendar(),
		setSize: DefaultSetSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = load(store, s.cal)
	logging.Tally("Loaded tally: lifetime=%d sets=%d day=%s week=%d",
		s.state.LifetimeCount, s.state.SetCount, s.state.LastResetDay, s.state.LastResetWeek)

	s.reconcileLocked()
	s.unsaved = !write(s.kv, s.state, Keys...)
	return s
}

// Peek loads and reconciles the counters without writing anything back.
func Peek(store kv.Store, cal Calendar) State {
	st := load(store, cal)
	st.Reconcile(cal.Today(), cal.Week())
	return st
}

// State returns a copy of the current counters.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetSize returns the configured counts per set.
func (s *Store) SetSize() int64 {
	return s.setSize
}

// Reconcile applies any pending day or week rollover and persists.
func (s *Store) Reconcile() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	s.reconcileLocked()
	s.unsaved = !write(s.kv, s.state, Keys...)
	return s.state
}

// refreshLocked picks up writes made through other handles on the same
// storage, such as another japa process. The in-memory state is kept when a
// read fails or an earlier write did not land.
func (s *Store) refreshLocked() {
	if s.unsaved {
		return
	}
	st, ok := reload(s.kv, s.cal)
	if !ok {
		logging.StoreWarn("refresh failed, continuing from in-memory state")
		return
	}
	s.state = st
}

func (s *Store) reconcileLocked() {
	r := s.state.Reconcile(s.cal.Today(), s.cal.Week())
	if r.Day {
		logging.Tally("Day rolled over to %s", s.state.LastResetDay)
	}
	if r.Week {
		logging.Tally("Week rolled over to %d", s.state.LastResetWeek)
	}
}

// Increment counts once. Pending rollovers are applied first so a count made
// after midnight lands in the new day.
func (s *Store) Increment() Increment {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked()
	s.reconcileLocked()
	completed := s.state.Increment(s.setSize)
	s.unsaved = !write(s.kv, s.state, Keys...)

	if completed {
		logging.Tally("Set %d completed at lifetime=%d", s.state.SetCount, s.state.LifetimeCount)
	} else {
		logging.TallyDebug("Count session=%d lifetime=%d", s.state.SessionCount, s.state.LifetimeCount)
	}
	return Increment{
		State:        s.state,
		SetCompleted: completed,
		PlayTone:     s.state.SoundEnabled,
	}
}

// ResetSession zeroes the session counter and persists.
func (s *Store) ResetSession() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	s.state.ResetSession()
	s.unsaved = !write(s.kv, s.state, Keys...)
	logging.TallyDebug("Session reset")
	return s.state
}

// ToggleSound flips the sound flag, persisting only that key.
func (s *Store) ToggleSound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	enabled := s.state.ToggleSound()
	if !write(s.kv, s.state, KeySoundEnabled) {
		s.unsaved = true
	}
	logging.TallyDebug("Sound enabled=%v", enabled)
	return enabled
}
