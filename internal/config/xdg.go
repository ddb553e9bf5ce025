// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultKeyListDir returns the default directory for target list files.
func DefaultKeyListDir() string {
	return filepath.Join(XDGConfigHome(), "reactrain", "keylists")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "reactrain", "reactrain.db")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), "reactrain", "reactrain.log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "reactrain", "config.toml")
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ResolveKeyList maps a bare list name to the key list directory. Paths are
// returned unchanged apart from home expansion.
func ResolveKeyList(name string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.HasPrefix(name, "~") || filepath.Ext(name) != "" {
		return ExpandHome(name)
	}
	return filepath.Join(DefaultKeyListDir(), name+".txt")
}
