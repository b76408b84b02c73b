package config

import (
	"fmt"
	"time"
)

// SoundConfig configures the count tone.
type SoundConfig struct {
	// Mode is off, bell (terminal BEL) or command (external audio player)
	Mode string `yaml:"mode" env:"JAPA_SOUND_MODE"`

	// Command overrides the audio player binary for command mode
	Command    string  `yaml:"command,omitempty" env:"JAPA_SOUND_COMMAND"`
	SampleRate int     `yaml:"sample_rate"`
	Gain       float64 `yaml:"gain"`
	Timeout    string  `yaml:"timeout"`
}

func (s SoundConfig) validate() error {
	switch s.Mode {
	case "off", "bell", "command":
	default:
		return fmt.Errorf("invalid sound.mode: %s (valid: off, bell, command)", s.Mode)
	}
	if s.Gain < 0 || s.Gain > 1 {
		return fmt.Errorf("sound.gain must be within [0, 1], got %v", s.Gain)
	}
	return checkDuration("sound.timeout", s.Timeout)
}

// GetTimeout returns the playback timeout as a duration.
func (s SoundConfig) GetTimeout() time.Duration {
	return parseDuration(s.Timeout, 5*time.Second)
}
