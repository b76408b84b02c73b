package config

import (
	"fmt"
	"time"
)

// UIConfig holds interactive screen configuration.
type UIConfig struct {
	// Mantra is shown under the counter after the first count
	Mantra string `yaml:"mantra"`

	// BannerText is shown when a set completes
	BannerText string `yaml:"banner_text"`

	// BannerDuration is how long the completion banner stays up
	BannerDuration string `yaml:"banner_duration"`

	// PulseDuration is how long the counter stays highlighted after a count
	PulseDuration string `yaml:"pulse_duration"`

	// Theme is auto, light or dark
	Theme string `yaml:"theme" env:"JAPA_THEME"`
}

func (u UIConfig) validate() error {
	switch u.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("invalid ui.theme: %s (valid: auto, light, dark)", u.Theme)
	}
	if err := checkDuration("ui.banner_duration", u.BannerDuration); err != nil {
		return err
	}
	return checkDuration("ui.pulse_duration", u.PulseDuration)
}

// GetBannerDuration returns the banner lifetime as a duration.
func (u UIConfig) GetBannerDuration() time.Duration {
	return parseDuration(u.BannerDuration, 3*time.Second)
}

// GetPulseDuration returns the counter highlight time as a duration.
func (u UIConfig) GetPulseDuration() time.Duration {
	return parseDuration(u.PulseDuration, 500*time.Millisecond)
}
