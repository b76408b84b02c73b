package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"japa/internal/config"
	"japa/internal/kv"
	"japa/internal/tally"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupWorkspace points the CLI globals at a fresh workspace backed by the
// JSON file store with sound off.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	workspace = t.TempDir()
	configPath = ""
	countQuiet = false
	statsWatch = false
	configForce = false
	t.Setenv("JAPA_STORAGE_BACKEND", "file")
	t.Setenv("JAPA_STORAGE_PATH", "tally.json")
	t.Setenv("JAPA_SOUND_MODE", "off")
	return workspace
}

func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	require.NoError(t, fn(cmd, args))
	return buf.String()
}

func TestCountPersistsAcrossInvocations(t *testing.T) {
	setupWorkspace(t)

	out := run(t, runCount)
	assert.Contains(t, out, "session 1  today 1  week 1  total 1  (1/108)")

	out = run(t, runCount, "4")
	assert.Contains(t, out, "total 5  (5/108)")

	_, err := os.Stat(filepath.Join(workspace, config.Dir, "tally.json"))
	assert.NoError(t, err)
}

func TestCountRejectsBadArgument(t *testing.T) {
	setupWorkspace(t)

	for _, arg := range []string{"0", "-3", "many"} {
		err := runCount(&cobra.Command{}, []string{arg})
		assert.Error(t, err, arg)
	}
}

func TestCountPrintsBannerOnCompletedSet(t *testing.T) {
	setupWorkspace(t)

	out := run(t, runCount, "108")
	assert.Equal(t, 1, strings.Count(out, config.DefaultConfig().UI.BannerText))
	assert.Contains(t, out, "total 108  (0/108)")
}

func TestCountQuiet(t *testing.T) {
	setupWorkspace(t)
	countQuiet = true

	assert.Empty(t, run(t, runCount, "3"))
}

func TestCountHonorsSetSizeOverride(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("JAPA_SET_SIZE", "10")

	out := run(t, runCount, "12")
	assert.Contains(t, out, "(2/10)")
	assert.Equal(t, 1, strings.Count(out, config.DefaultConfig().UI.BannerText))
}

func TestResetKeepsTotals(t *testing.T) {
	setupWorkspace(t)
	run(t, runCount, "7")

	out := run(t, resetCmd.RunE)
	assert.Contains(t, out, "session reset")

	statsOut := run(t, runStats)
	assert.Contains(t, statsOut, "Session   0\n")
	assert.Contains(t, statsOut, "Today     7  (malas 0)")
	assert.Contains(t, statsOut, "Total     7  (malas 0)")
}

func TestSoundToggles(t *testing.T) {
	setupWorkspace(t)

	assert.Contains(t, run(t, soundCmd.RunE), "sound off")
	assert.Contains(t, run(t, soundCmd.RunE), "sound on")
}

func TestStatsOnEmptyWorkspace(t *testing.T) {
	setupWorkspace(t)

	out := run(t, runStats)
	assert.Contains(t, out, "Total     0  (malas 0)")
	assert.Contains(t, out, "Progress  0/108")
	assert.Contains(t, out, "Sound     on")
}

func TestStatsDoesNotCreateStore(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("JAPA_STORAGE_BACKEND", "sqlite")
	t.Setenv("JAPA_STORAGE_PATH", "tally.db")

	out := run(t, runStats)
	assert.Contains(t, out, "Total     0  (malas 0)")

	_, err := os.Stat(filepath.Join(workspace, config.Dir, "tally.db"))
	assert.True(t, os.IsNotExist(err), "stats must not create the database")
}

func TestCorruptStoreIsNotUserVisible(t *testing.T) {
	setupWorkspace(t)
	path := filepath.Join(workspace, config.Dir, "tally.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{"lifetimeCount":"500",`), 0644))

	out := run(t, runStats)
	assert.Contains(t, out, "Total     0  (malas 0)")

	run(t, runCount, "3")
	run(t, runCount, "3")
	assert.Contains(t, run(t, runStats), "Total     6  (malas 0)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lifetimeCount": "6"`)
}

func TestStatsWithSQLite(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("JAPA_STORAGE_BACKEND", "sqlite")
	t.Setenv("JAPA_STORAGE_PATH", "tally.db")

	run(t, runCount, "110")
	out := run(t, runStats)
	assert.Contains(t, out, "Total     110  (malas 1)")
	assert.Contains(t, out, "Progress  2/108")
}

func TestConfigInitAndShow(t *testing.T) {
	setupWorkspace(t)

	out := run(t, configInitCmd.RunE)
	assert.Contains(t, out, config.DefaultPath(workspace))

	err := configInitCmd.RunE(&cobra.Command{}, nil)
	assert.Error(t, err, "second init without --force should fail")

	configForce = true
	run(t, configInitCmd.RunE)

	t.Setenv("JAPA_SET_SIZE", "27")
	out = run(t, configShowCmd.RunE)
	assert.Contains(t, out, "set_size: 27")
	assert.Contains(t, out, "backend: file")
}

func TestWatchRejectsMemoryBackend(t *testing.T) {
	setupWorkspace(t)
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = kv.BackendMemory

	err := watchStats(context.Background(), &bytes.Buffer{}, cfg, tally.SystemCalendar())
	assert.Error(t, err)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReprintsOnChange(t *testing.T) {
	setupWorkspace(t)
	cfg, err := config.Load(config.DefaultPath(workspace))
	require.NoError(t, err)
	cal := tally.SystemCalendar()

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- watchStats(ctx, out, cfg, cal)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Total     0")
	}, 2*time.Second, 10*time.Millisecond)
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	store, err := kv.OpenFile(cfg.Storage.ResolvePath(workspace))
	require.NoError(t, err)
	tally.Open(store, tally.WithCalendar(cal)).Increment()
	require.NoError(t, store.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Total     1")
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchStats did not return after cancel")
	}
}
