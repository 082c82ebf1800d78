// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Default locations, expanded by ExpandPath before use.
const (
	DefaultDatabasePath = "$HOME/.local/share/sift/sift.db"
	DefaultConfigDir    = "$HOME/.config/sift"
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

// DatabasePath returns the configured database path, falling back to the default.
func DatabasePath(configured string) string {
	if strings.TrimSpace(configured) == "" {
		configured = DefaultDatabasePath
	}
	return ExpandPath(configured)
}

// Delimiter returns the first rune of a configured delimiter. An empty
// value or the word "tab" map to the obvious characters.
func Delimiter(configured string) rune {
	switch strings.ToLower(configured) {
	case "":
		return ','
	case "tab", `\t`:
		return '\t'
	}
	return []rune(configured)[0]
}
