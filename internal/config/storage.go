package config

import (
	"fmt"
	"path/filepath"
)

// StorageConfig selects where counters are persisted.
type StorageConfig struct {
	// Backend is sqlite, file or memory
	Backend string `yaml:"backend" env:"JAPA_STORAGE_BACKEND"`

	// Path is relative to the workspace .japa directory unless absolute
	Path string `yaml:"path" env:"JAPA_STORAGE_PATH"`

	// Driver picks the sqlite driver: sqlite (pure Go) or sqlite3 (cgo)
	Driver string `yaml:"driver" env:"JAPA_SQLITE_DRIVER"`
}

// ValidBackends lists the supported storage backends.
var ValidBackends = []string{"sqlite", "file", "memory"}

func (s StorageConfig) validate() error {
	valid := false
	for _, b := range ValidBackends {
		if s.Backend == b {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid storage.backend: %s (valid: %v)", s.Backend, ValidBackends)
	}
	if s.Backend == "sqlite" && s.Driver != "" && s.Driver != "sqlite" && s.Driver != "sqlite3" {
		return fmt.Errorf("invalid storage.driver: %s (valid: sqlite, sqlite3)", s.Driver)
	}
	if s.Backend != "memory" && s.Path == "" {
		return fmt.Errorf("storage.path required for %s backend", s.Backend)
	}
	return nil
}

// ResolvePath returns the absolute store path for a workspace.
func (s StorageConfig) ResolvePath(workspace string) string {
	if s.Path == "" || filepath.IsAbs(s.Path) {
		return s.Path
	}
	return filepath.Join(workspace, Dir, s.Path)
}
