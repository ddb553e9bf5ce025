// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Trainer TrainerConfig `toml:"trainer"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// TrainerConfig maps trainer-related settings.
type TrainerConfig struct {
	Targets     *string  `toml:"targets"`
	Preset      *string  `toml:"preset"`
	TargetsFile *string  `toml:"targets-file"`
	DelayMs     *int     `toml:"delay-ms"`
	GlobalInput *bool    `toml:"global-input"`
	FocusWeak   *bool    `toml:"focus-weak"`
	WeakFactor  *float64 `toml:"weak-factor"`
}

// HistoryConfig maps session history settings.
type HistoryConfig struct {
	Enabled *bool   `toml:"enabled"`
	DB      *string `toml:"db"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	File  *string `toml:"file"`
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written by `reactrain config` when no config file exists.
const Template = `# reactrain configuration

[trainer]
# Comma-separated targets. LMB, RMB and MMB expand to mouse buttons.
# targets = "A, S, D, F, LMB"
# Built-in preset: arrows, digits, f-keys, home-row, mouse, wasd.
# preset = "home-row"
# File with one or more comma-separated targets per line.
# targets-file = "~/.config/reactrain/keylists/fps.txt"
# Delay between targets in milliseconds (50-5000).
# delay-ms = 750
# Read keyboard and mouse from /dev/input instead of the terminal (Linux).
# global-input = false
# Show slow or missed targets more often (needs history).
# focus-weak = false
# weak-factor = 2.0

[history]
# Store session summaries in a local SQLite database.
# enabled = false
# db = "~/.local/share/reactrain/reactrain.db"

[log]
# file = "~/.local/share/reactrain/reactrain.log"
# level = "info"
`
