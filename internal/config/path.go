// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir returns the graze configuration directory, typically
// ~/.config/graze.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".graze"
	}
	return filepath.Join(home, ".config", "graze")
}

// DefaultDatabasePath returns where the evaluation database lives when
// no explicit path is configured.
func DefaultDatabasePath() string {
	return filepath.Join(ConfigDir(), "graze.db")
}
