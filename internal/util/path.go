package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~/ to the user's home directory and
// absolutizes the result.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

// EnsureDir creates a directory and its parents if missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
