package tally

import (
	"strconv"

	"japa/internal/kv"
	"japa/internal/logging"
)

// Storage keys, one per State field.
const (
	KeySessionCount  = "sessionCount"
	KeyTodayCount    = "todayCount"
	KeyWeekCount     = "weekCount"
	KeyLifetimeCount = "lifetimeCount"
	KeySetCount      = "setCount"
	KeyTodaySetCount = "todaySetCount"
	KeyWeekSetCount  = "weekSetCount"
	KeySoundEnabled  = "soundEnabled"
	KeyLastResetDay  = "lastResetDay"
	KeyLastResetWeek = "lastResetWeek"
)

// Keys lists every storage key in the order they are written.
var Keys = []string{
	KeySessionCount,
	KeyTodayCount,
	KeyWeekCount,
	KeyLifetimeCount,
	KeySetCount,
	KeyTodaySetCount,
	KeyWeekSetCount,
	KeySoundEnabled,
	KeyLastResetDay,
	KeyLastResetWeek,
}

// reader decodes fields and remembers whether any read failed.
type reader struct {
	store  kv.Store
	failed bool
}

func (r *reader) str(key string) (string, bool) {
	v, ok, err := r.store.Get(key)
	if err != nil {
		logging.StoreWarn("read %s failed, using default: %v", key, err)
		r.failed = true
		return "", false
	}
	return v, ok
}

// count treats absent, malformed and negative values as 0.
func (r *reader) count(key string) int64 {
	v, ok := r.str(key)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		logging.StoreDebug("ignoring malformed %s=%q", key, v)
		return 0
	}
	return n
}

// state builds a State from storage, defaulting the markers from cal.
func (r *reader) state(cal Calendar) State {
	st := State{
		SessionCount:  r.count(KeySessionCount),
		TodayCount:    r.count(KeyTodayCount),
		WeekCount:     r.count(KeyWeekCount),
		LifetimeCount: r.count(KeyLifetimeCount),
		SetCount:      r.count(KeySetCount),
		TodaySetCount: r.count(KeyTodaySetCount),
		WeekSetCount:  r.count(KeyWeekSetCount),
		SoundEnabled:  true,
	}

	if v, ok := r.str(KeySoundEnabled); ok && v == "false" {
		st.SoundEnabled = false
	}

	if v, ok := r.str(KeyLastResetDay); ok && v != "" {
		st.LastResetDay = v
	} else {
		st.LastResetDay = cal.Today()
	}

	st.LastResetWeek = cal.Week()
	if v, ok := r.str(KeyLastResetWeek); ok {
		if n, err := strconv.Atoi(v); err == nil {
			st.LastResetWeek = n
		}
	}
	return st
}

// load reads every field, substituting defaults for anything unreadable.
func load(store kv.Store, cal Calendar) State {
	r := reader{store: store}
	return r.state(cal)
}

// reload reads every field and reports false if any read failed, in which
// case the result must not replace a state already held in memory.
func reload(store kv.Store, cal Calendar) (State, bool) {
	r := reader{store: store}
	st := r.state(cal)
	return st, !r.failed
}

func encode(st State) map[string]string {
	return map[string]string{
		KeySessionCount:  strconv.FormatInt(st.SessionCount, 10),
		KeyTodayCount:    strconv.FormatInt(st.TodayCount, 10),
		KeyWeekCount:     strconv.FormatInt(st.WeekCount, 10),
		KeyLifetimeCount: strconv.FormatInt(st.LifetimeCount, 10),
		KeySetCount:      strconv.FormatInt(st.SetCount, 10),
		KeyTodaySetCount: strconv.FormatInt(st.TodaySetCount, 10),
		KeyWeekSetCount:  strconv.FormatInt(st.WeekSetCount, 10),
		KeySoundEnabled:  strconv.FormatBool(st.SoundEnabled),
		KeyLastResetDay:  st.LastResetDay,
		KeyLastResetWeek: strconv.Itoa(st.LastResetWeek),
	}
}

// write stores the given keys of st; failures are logged and skipped. It
// reports whether every key was written.
func write(store kv.Store, st State, keys ...string) bool {
	values := encode(st)
	ok := true
	for _, key := range keys {
		if err := store.Set(key, values[key]); err != nil {
			logging.StoreWarn("write %s failed, keeping in-memory value: %v", key, err)
			ok = false
		}
	}
	return ok
}
