package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Dir is the per-workspace state directory.
const Dir = ".japa"

// Config holds all japa configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Tally   TallyConfig   `yaml:"tally"`
	Sound   SoundConfig   `yaml:"sound"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// TallyConfig configures counting rules.
type TallyConfig struct {
	// SetSize is the number of counts in a completed set (default 108)
	SetSize int64 `yaml:"set_size" env:"JAPA_SET_SIZE"`

	// Timezone names the IANA zone used for day and week boundaries.
	// Empty means the local zone.
	Timezone string `yaml:"timezone" env:"JAPA_TIMEZONE"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "tally.db",
			Driver:  "sqlite",
		},
		Tally: TallyConfig{
			SetSize: 108,
		},
		Sound: SoundConfig{
			Mode:       "bell",
			SampleRate: 44100,
			Gain:       0.5,
			Timeout:    "5s",
		},
		UI: UIConfig{
			Mantra:         "राधे राधे",
			BannerText:     "ॐ - एक माला पूर्ण हुई! राधे राधे",
			BannerDuration: "3s",
			PulseDuration:  "500ms",
			Theme:          "auto",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the config file location for a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, Dir, "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies JAPA_* environment variables on top of the file.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Storage.validate(); err != nil {
		return err
	}
	if c.Tally.SetSize < 1 {
		return fmt.Errorf("tally.set_size must be positive, got %d", c.Tally.SetSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := c.Sound.validate(); err != nil {
		return err
	}
	return c.UI.validate()
}

// Location returns the time zone for day and week boundaries.
func (c *Config) Location() (*time.Location, error) {
	if c.Tally.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Tally.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid tally.timezone %q: %w", c.Tally.Timezone, err)
	}
	return loc, nil
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func checkDuration(field, value string) error {
	if value == "" {
		return nil
	}
	if d, err := time.ParseDuration(value); err != nil || d <= 0 {
		return fmt.Errorf("invalid %s %q", field, value)
	}
	return nil
}
