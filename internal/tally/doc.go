// Package tally owns the repetition counters of a japa practice.
//
// A State holds the session, day, week and lifetime counts together with the
// number of completed sets (malas) in each period. State transitions are pure
// methods on the value; Store wraps a State, applies the transitions under a
// lock and writes every field back to a kv.Store after each change.
//
// Storage is best effort. Unreadable or malformed values load as defaults and
// failed writes are logged and dropped, so no Store method returns an error.
package tally
