package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"japa/cmd/japa/ui"
	"japa/internal/config"
	"japa/internal/kv"
	"japa/internal/logging"
	"japa/internal/tally"
	"japa/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	countQuiet bool
	statsWatch bool
)

// runInteractive opens the counter screen.
func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	player := newPlayer(a.cfg, os.Stderr)
	defer waitPlayer(player)

	model := ui.New(a.store, player, ui.Options{
		Mantra:         a.cfg.UI.Mantra,
		BannerText:     a.cfg.UI.BannerText,
		BannerDuration: a.cfg.UI.GetBannerDuration(),
		PulseDuration:  a.cfg.UI.GetPulseDuration(),
		Styles:         ui.NewStyles(ui.ThemeFor(a.cfg.UI.Theme)),
	})

	logging.UIDebug("Starting counter screen")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("counter screen failed: %w", err)
	}
	logging.UIDebug("Counter screen closed")
	return nil
}

var countCmd = &cobra.Command{
	Use:   "count [n]",
	Short: "Add one count (or n counts) to the tally",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCount,
}

func runCount(cmd *cobra.Command, args []string) error {
	n := 1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("count must be a positive integer, got %q", args[0])
		}
		n = v
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	player := newPlayer(a.cfg, cmd.ErrOrStderr())
	defer waitPlayer(player)

	var last tally.Increment
	playTone := false
	for i := 0; i < n; i++ {
		last = a.store.Increment()
		playTone = playTone || last.PlayTone
		if last.SetCompleted {
			fmt.Fprintln(out, a.cfg.UI.BannerText)
		}
	}
	// One tone per invocation, however many counts it added.
	if playTone {
		player.PlayCompletionTone()
	}

	logger.Debug("counted", zap.Int("n", n), zap.Int64("lifetime", last.State.LifetimeCount))
	if !countQuiet {
		st := last.State
		fmt.Fprintf(out, "session %s  today %s  week %s  total %s  (%d/%d)\n",
			ui.FormatCount(st.SessionCount),
			ui.FormatCount(st.TodayCount),
			ui.FormatCount(st.WeekCount),
			ui.FormatCount(st.LifetimeCount),
			st.ProgressInSet(a.store.SetSize()),
			a.store.SetSize())
	}
	return nil
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zero the session counter",
	Long:  "Zero the session counter. Today, week and lifetime totals are kept.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.store.ResetSession()
		fmt.Fprintln(cmd.OutOrStdout(), "session reset")
		return nil
	},
}

var soundCmd = &cobra.Command{
	Use:   "sound",
	Short: "Toggle the count tone on or off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.store.ToggleSound() {
			fmt.Fprintln(cmd.OutOrStdout(), "sound on")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "sound off")
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the current counters",
	Long: `Show the current counters without changing them.

With --watch the counters are printed again every time another japa process
updates the store. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	cal, err := calendarFor(cfg)
	if err != nil {
		return err
	}
	if !statsWatch {
		printSnapshot(cmd.OutOrStdout(), cfg, cal)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchStats(ctx, cmd.OutOrStdout(), cfg, cal)
}

// openExisting opens the configured store for reading. It returns false
// when the store file does not exist yet or cannot be opened; the caller
// then shows defaults. Nothing is created on disk.
func openExisting(cfg *config.Config) (kv.Store, bool) {
	opts := storeOptions(cfg)
	if opts.Backend != kv.BackendMemory {
		if _, err := os.Stat(opts.Path); err != nil {
			if !os.IsNotExist(err) {
				logging.StoreWarn("stat %s failed, showing defaults: %v", opts.Path, err)
			}
			return nil, false
		}
	}
	store, err := kv.Open(opts)
	if err != nil {
		logger.Warn("storage unavailable, showing defaults", zap.String("path", opts.Path), zap.Error(err))
		logging.StoreWarn("open %s at %s failed, showing defaults: %v", opts.Backend, opts.Path, err)
		return nil, false
	}
	return store, true
}

// printSnapshot opens the store just long enough to read it.
func printSnapshot(w io.Writer, cfg *config.Config, cal tally.Calendar) {
	var store kv.Store = kv.NewMemory()
	if existing, ok := openExisting(cfg); ok {
		store = existing
	}
	defer store.Close()

	printStats(w, tally.Peek(store, cal), cfg.Tally.SetSize)
}

func printStats(w io.Writer, st tally.State, setSize int64) {
	sound := "off"
	if st.SoundEnabled {
		sound = "on"
	}
	fmt.Fprintf(w, "Session   %s\n", ui.FormatCount(st.SessionCount))
	fmt.Fprintf(w, "Today     %s  (malas %s)\n", ui.FormatCount(st.TodayCount), ui.FormatCount(st.TodaySetCount))
	fmt.Fprintf(w, "Week      %s  (malas %s)\n", ui.FormatCount(st.WeekCount), ui.FormatCount(st.WeekSetCount))
	fmt.Fprintf(w, "Total     %s  (malas %s)\n", ui.FormatCount(st.LifetimeCount), ui.FormatCount(st.SetCount))
	fmt.Fprintf(w, "Progress  %d/%d\n", st.ProgressInSet(setSize), setSize)
	fmt.Fprintf(w, "Sound     %s\n", sound)
}

// watchStats prints a snapshot, then another one after every burst of
// writes to the store file, until ctx ends.
func watchStats(ctx context.Context, w io.Writer, cfg *config.Config, cal tally.Calendar) error {
	if cfg.Storage.Backend == kv.BackendMemory {
		return fmt.Errorf("cannot watch the %s backend", kv.BackendMemory)
	}
	path := cfg.Storage.ResolvePath(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	// The file backend caches its document, so it is reopened per snapshot.
	// SQLite is opened once it exists and then held: reopening recreates the
	// -wal and -shm files, which the watcher would report as another change.
	var held kv.Store
	defer func() {
		if held != nil {
			held.Close()
		}
	}()
	snapshot := func() {
		if cfg.Storage.Backend == kv.BackendFile {
			printSnapshot(w, cfg, cal)
			return
		}
		if held == nil {
			if store, ok := openExisting(cfg); ok {
				held = store
			}
		}
		var store kv.Store = kv.NewMemory()
		if held != nil {
			store = held
		}
		printStats(w, tally.Peek(store, cal), cfg.Tally.SetSize)
	}

	snapshot()

	watcher, err := watch.New(path, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()
	logger.Debug("watching store", zap.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watcher.Changes():
			fmt.Fprintln(w)
			snapshot()
		}
	}
}
