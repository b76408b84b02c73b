package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"japa/internal/logging"
)

// File keeps all keys in one JSON object on disk. Each Set rewrites the file
// through a temp file and rename so a crash never leaves a torn document.
type File struct {
	mu     sync.Mutex
	path   string
	data   map[string]string
	closed bool
}

// OpenFile loads (or creates on first write) the JSON store at path. A
// document that does not parse is treated as empty.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("file store path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}

	f := &File{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f.data); err != nil {
			f.data = make(map[string]string)
			quarantine(path, err)
		}
	}
	return f, nil
}

// quarantine moves an unparseable document to <path>.corrupt so the store
// starts empty and later writes replace it.
func quarantine(path string, cause error) {
	aside := path + ".corrupt"
	if err := os.Rename(path, aside); err != nil {
		logging.StoreWarn("store %s is corrupt (%v) and could not be moved aside: %v", path, cause, err)
		return
	}
	logging.StoreWarn("store %s is corrupt (%v), moved to %s", path, cause, aside)
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	prev, had := f.data[key]
	f.data[key] = value
	if err := f.flushLocked(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *File) flushLocked() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
