package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" env:"JAPA_LOG_LEVEL"`  // debug, info, warn, error
	JSONFormat bool            `yaml:"json_format"`                 // JSON lines instead of text
	DebugMode  bool            `yaml:"debug_mode" env:"JAPA_DEBUG"` // Master toggle - false = no logging
	Categories map[string]bool `yaml:"categories,omitempty"`        // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false if debug_mode is false.
// Returns true if debug_mode is true and category is enabled (or not specified).
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
