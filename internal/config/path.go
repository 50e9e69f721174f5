// Package config loads the application configuration from flags, config
// files, .env files and FINTRACK_ environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a configured path. Environment variables are expanded
// first, so a variable holding "~/..." still lands under the home directory.
// Special SQLite names such as ":memory:" pass through untouched.
func ExpandPath(path string) string {
	if path == "" || strings.HasPrefix(path, ":") {
		return path
	}

	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return filepath.Clean(path)
}
