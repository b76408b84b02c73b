// Package kv provides the durable string key-value stores that back the tally.
//
// Every backend writes one key at a time; there are no multi-key transactions.
package kv

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("kv: store closed")

// Store is a durable string key-value map.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	// Set writes a single key.
	Set(key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Path    string
	// Driver is the database/sql driver for the sqlite backend: "sqlite"
	// (modernc, default) or "sqlite3" (mattn, cgo).
	Driver string
}

// Open returns the backend described by opts.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return OpenSQLite(opts.Path, opts.Driver)
	case BackendFile:
		return OpenFile(opts.Path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
