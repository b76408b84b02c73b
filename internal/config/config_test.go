package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Tally.SetSize != 108 {
		t.Errorf("expected SetSize=108, got %d", cfg.Tally.SetSize)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected Backend=sqlite, got %s", cfg.Storage.Backend)
	}
	if got := cfg.UI.GetBannerDuration(); got != 3*time.Second {
		t.Errorf("expected banner duration 3s, got %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".japa", "config.yaml")

	cfg := DefaultConfig()
	cfg.Storage.Backend = "file"
	cfg.Storage.Path = "tally.json"
	cfg.Sound.Mode = "off"
	cfg.Logging.Categories = map[string]bool{"audio": false}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Storage.Backend != "file" || loaded.Storage.Path != "tally.json" {
		t.Errorf("storage not round-tripped: %+v", loaded.Storage)
	}
	if loaded.Sound.Mode != "off" {
		t.Errorf("expected sound mode off, got %s", loaded.Sound.Mode)
	}
	if loaded.Logging.IsCategoryEnabled("audio") {
		t.Errorf("audio should stay disabled (debug mode off)")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Mantra != DefaultConfig().UI.Mantra {
		t.Errorf("expected default mantra, got %q", cfg.UI.Mantra)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tally:\n  set_size: 27\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tally.SetSize != 27 {
		t.Errorf("expected SetSize=27, got %d", cfg.Tally.SetSize)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("unset sections should keep defaults, got backend %q", cfg.Storage.Backend)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tally: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "pgx" }},
		{"missing path", func(c *Config) { c.Storage.Path = "" }},
		{"zero set size", func(c *Config) { c.Tally.SetSize = 0 }},
		{"bad timezone", func(c *Config) { c.Tally.Timezone = "Mars/Olympus" }},
		{"bad sound mode", func(c *Config) { c.Sound.Mode = "loud" }},
		{"gain out of range", func(c *Config) { c.Sound.Gain = 2 }},
		{"bad banner duration", func(c *Config) { c.UI.BannerDuration = "soon" }},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Storage.Backend = "memory"
	cfg.Storage.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory backend needs no path: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	s := StorageConfig{Path: "tally.db"}
	if got, want := s.ResolvePath("/ws"), filepath.Join("/ws", ".japa", "tally.db"); got != want {
		t.Errorf("ResolvePath = %q, want %q", got, want)
	}
	abs := StorageConfig{Path: "/var/lib/japa/tally.db"}
	if got := abs.ResolvePath("/ws"); got != "/var/lib/japa/tally.db" {
		t.Errorf("absolute path should be kept, got %q", got)
	}
}

func TestDurationFallbacks(t *testing.T) {
	ui := UIConfig{BannerDuration: "bogus", PulseDuration: "-1s"}
	if got := ui.GetBannerDuration(); got != 3*time.Second {
		t.Errorf("banner fallback = %v", got)
	}
	if got := ui.GetPulseDuration(); got != 500*time.Millisecond {
		t.Errorf("pulse fallback = %v", got)
	}
	if got := (SoundConfig{}).GetTimeout(); got != 5*time.Second {
		t.Errorf("sound timeout fallback = %v", got)
	}
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("empty timezone should be local, got %v, %v", loc, err)
	}
	cfg.Tally.Timezone = "UTC"
	loc, err = cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v, %v", loc, err)
	}
}
