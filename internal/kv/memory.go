package kv

import (
	"sync"
)

// Memory is a map-backed Store. Reads and writes can be made to fail, and
// every successful write is recorded, which is what the tally tests rely on.
type Memory struct {
	mu       sync.Mutex
	data     map[string]string
	writes   []string
	readErr  error
	writeErr error
	closed   bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// NewMemoryFrom returns an in-memory store seeded with values.
func NewMemoryFrom(values map[string]string) *Memory {
	m := NewMemory()
	for k, v := range values {
		m.data[k] = v
	}
	return m
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}
	if m.readErr != nil {
		return "", false, m.readErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.data[key] = value
	m.writes = append(m.writes, key)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// FailReads makes every subsequent Get return err (nil restores reads).
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	m.readErr = err
	m.mu.Unlock()
}

// FailWrites makes every subsequent Set return err (nil restores writes).
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	m.writeErr = err
	m.mu.Unlock()
}

// Writes returns the keys written since the last ResetWrites, in order.
func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.writes))
	copy(out, m.writes)
	return out
}

// ResetWrites clears the write log.
func (m *Memory) ResetWrites() {
	m.mu.Lock()
	m.writes = nil
	m.mu.Unlock()
}

// Snapshot returns a copy of the stored values.
func (m *Memory) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}
