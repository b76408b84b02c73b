package main

import (
	"io"
	"path/filepath"

	"japa/internal/config"
	"japa/internal/kv"
	"japa/internal/logging"
	"japa/internal/tally"
	"japa/internal/tone"

	"go.uber.org/zap"
)

// app bundles everything one command needs.
type app struct {
	cfg   *config.Config
	kv    kv.Store
	store *tally.Store
	cal   tally.Calendar
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath(workspace)
}

// loadConfig reads and validates the config and starts file logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSONFormat,
		Categories: cfg.Logging.Categories,
	}
	if err := logging.Initialize(workspace, opts); err != nil {
		logger.Warn("file logging unavailable", zap.Error(err))
	}
	return cfg, nil
}

func calendarFor(cfg *config.Config) (tally.Calendar, error) {
	loc, err := cfg.Location()
	if err != nil {
		return tally.Calendar{}, err
	}
	return tally.NewCalendar(nil, loc), nil
}

func storeOptions(cfg *config.Config) kv.Options {
	return kv.Options{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.ResolvePath(workspace),
		Driver:  cfg.Storage.Driver,
	}
}

// openKV opens durable storage. When it cannot be opened the tally still
// works for this run on an in-memory store.
func openKV(cfg *config.Config) kv.Store {
	opts := storeOptions(cfg)
	store, err := kv.Open(opts)
	if err != nil {
		logger.Warn("storage unavailable, counting in memory only",
			zap.String("backend", opts.Backend),
			zap.String("path", opts.Path),
			zap.Error(err))
		logging.StoreWarn("open %s at %s failed: %v", opts.Backend, opts.Path, err)
		return kv.NewMemory()
	}
	logger.Debug("storage opened", zap.String("backend", opts.Backend), zap.String("path", opts.Path))
	return store
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cal, err := calendarFor(cfg)
	if err != nil {
		return nil, err
	}

	store := openKV(cfg)
	t := tally.Open(store, tally.WithCalendar(cal), tally.WithSetSize(cfg.Tally.SetSize))
	return &app{cfg: cfg, kv: store, store: t, cal: cal}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		logger.Warn("closing storage", zap.Error(err))
	}
	logging.CloseAll()
}

func newPlayer(cfg *config.Config, out io.Writer) tone.Player {
	return tone.New(cfg.Sound.Mode, tone.CommandOptions{
		Command:    cfg.Sound.Command,
		CacheDir:   filepath.Join(workspace, config.Dir, "cache"),
		SampleRate: cfg.Sound.SampleRate,
		Gain:       cfg.Sound.Gain,
		Timeout:    cfg.Sound.GetTimeout(),
	}, out)
}

// waitPlayer lets command-line playback finish before the process exits.
func waitPlayer(p tone.Player) {
	if cp, ok := p.(*tone.CommandPlayer); ok {
		cp.Wait()
	}
}
