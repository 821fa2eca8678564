// Package config defines the kalam process configuration and how it is loaded.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayusman/kalam/internal/hmm"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: trace, debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogPretty switches to human-readable console logs.
	LogPretty bool `koanf:"log_pretty"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// StaticDir optionally serves a web UI from disk.
	StaticDir string `koanf:"static_dir"`
	// ServerURL is the base URL the CLI client talks to.
	ServerURL string `koanf:"server_url"`

	// DataDir holds the letter database.
	DataDir string `koanf:"data_dir"`
	// StorageDriver selects the persistence engine: sqlite or bolt.
	StorageDriver string `koanf:"storage_driver"`

	// StateCount is the number of states per axis for new letters.
	StateCount int `koanf:"state_count"`
	// TrainCycles is the number of segmentation refinement passes.
	TrainCycles int `koanf:"train_cycles"`
	// Training starts the service with training mode enabled.
	Training bool `koanf:"training"`

	// PluginDir is scanned for action plugins.
	PluginDir string `koanf:"plugin_dir"`
	// PluginTimeoutMS bounds a single plugin execution.
	PluginTimeoutMS int `koanf:"plugin_timeout_ms"`
}

// New returns a Config populated with defaults.
func New() *Config {
	dataDir := ".kalam"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".kalam")
	}

	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		ServerURL:       "http://localhost:8080",
		DataDir:         dataDir,
		StorageDriver:   DriverSQLite,
		StateCount:      hmm.DefaultStates,
		TrainCycles:     hmm.DefaultCycles,
		PluginDir:       filepath.Join(dataDir, "plugins"),
		PluginTimeoutMS: 5000,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.StorageDriver != DriverSQLite && c.StorageDriver != DriverBolt:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	case c.StateCount < 1:
		return fmt.Errorf("%w: state_count must be at least 1, got %d", ErrInvalidConfig, c.StateCount)
	case c.TrainCycles < 0:
		return fmt.Errorf("%w: train_cycles must not be negative, got %d", ErrInvalidConfig, c.TrainCycles)
	case c.PluginTimeoutMS <= 0:
		return fmt.Errorf("%w: plugin_timeout_ms must be positive, got %d", ErrInvalidConfig, c.PluginTimeoutMS)
	}
	return nil
}

// DatabasePath returns the database file for the configured driver.
func (c *Config) DatabasePath() string {
	if c.StorageDriver == DriverBolt {
		return filepath.Join(c.DataDir, "kalam.bolt")
	}
	return filepath.Join(c.DataDir, "kalam.db")
}
