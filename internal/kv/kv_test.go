package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("todayCount")
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should not contain keys")

	require.NoError(t, s.Set("todayCount", "5"))
	v, ok, err := s.Get("todayCount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "5", v)

	require.NoError(t, s.Set("todayCount", "6"))
	v, _, err = s.Get("todayCount")
	require.NoError(t, err)
	assert.Equal(t, "6", v, "Set should overwrite")
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)
	assert.Equal(t, []string{"todayCount", "todayCount"}, m.Writes())

	m.ResetWrites()
	assert.Empty(t, m.Writes())

	boom := errors.New("quota exceeded")
	m.FailWrites(boom)
	assert.ErrorIs(t, m.Set("weekCount", "1"), boom)
	assert.Empty(t, m.Writes(), "failed writes are not recorded")

	m.FailReads(boom)
	_, _, err := m.Get("todayCount")
	assert.ErrorIs(t, err, boom)

	require.NoError(t, m.Close())
	m.FailReads(nil)
	_, _, err = m.Get("todayCount")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryFromSeedsValues(t *testing.T) {
	m := NewMemoryFrom(map[string]string{"lifetimeCount": "216"})
	v, ok, err := m.Get("lifetimeCount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "216", v)
	assert.Equal(t, map[string]string{"lifetimeCount": "216"}, m.Snapshot())
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "tally.json")

	f, err := OpenFile(path)
	require.NoError(t, err)
	exerciseStore(t, f)
	require.NoError(t, f.Set("soundEnabled", "false"))
	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.Set("x", "y"), ErrClosed)

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("soundEnabled")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "false", v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStoreRecoversFromCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lifetimeCount":"500",`), 0644))

	f, err := OpenFile(path)
	require.NoError(t, err)
	_, ok, err := f.Get("lifetimeCount")
	require.NoError(t, err)
	assert.False(t, ok, "corrupt document reads as empty")

	require.NoError(t, f.Set("lifetimeCount", "3"))
	require.NoError(t, f.Close())

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := reopened.Get("lifetimeCount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	aside, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, `{"lifetimeCount":"500",`, string(aside))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.db")

	s, err := OpenSQLite(path, "")
	require.NoError(t, err)
	exerciseStore(t, s)
	assert.Equal(t, path, s.Path())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close is idempotent")

	reopened, err := OpenSQLite(path, DriverModernc)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("todayCount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "6", v)
}

func TestSQLiteRejectsUnknownDriver(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "x.db"), "postgres")
	assert.Error(t, err)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(Options{Backend: BackendFile, Path: filepath.Join(dir, "tally.json")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)
	s.Close()

	s, err = Open(Options{Backend: BackendSQLite, Path: filepath.Join(dir, "tally.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	s.Close()

	_, err = Open(Options{Backend: "redis"})
	assert.Error(t, err)
}
