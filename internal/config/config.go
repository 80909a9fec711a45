// Package config manages the global (~/.config/bpetrace/config.toml)
// configuration for bpetrace.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GlobalConfig holds user-wide settings.
type GlobalConfig struct {
	Engine  EngineConfig  `toml:"engine"`
	Output  OutputConfig  `toml:"output"`
	Watch   WatchConfig   `toml:"watch"`
	History HistoryConfig `toml:"history"`
}

// EngineConfig sets engine defaults that CLI flags can override.
type EngineConfig struct {
	// MaxMerges caps recorded merge steps; 0 means unbounded.
	MaxMerges int `toml:"max_merges"`
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	Color bool `toml:"color"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	DebounceMs int `toml:"debounce_ms"`
}

// HistoryConfig controls the local run-history database.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultGlobal returns sensible defaults.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		Engine:  EngineConfig{MaxMerges: 0},
		Output:  OutputConfig{Color: true},
		Watch:   WatchConfig{DebounceMs: 300},
		History: HistoryConfig{Enabled: true},
	}
}

// ConfigDir returns the bpetrace config directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bpetrace"), nil
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryDBPath returns the path to the run-history SQLite database.
func HistoryDBPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LoadGlobal loads the global config, applying defaults for any missing values.
func LoadGlobal() (GlobalConfig, error) {
	cfg := DefaultGlobal()

	path, err := GlobalConfigPath()
	if err != nil {
		return cfg, nil // Return defaults if we can't determine home dir.
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // File doesn't exist yet — use defaults.
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load global: %w", err)
	}
	return cfg, nil
}

// SaveGlobal writes the global config to disk.
func SaveGlobal(cfg GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create global config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
