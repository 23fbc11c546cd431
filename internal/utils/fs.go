package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands environment variables and a leading "~" in path,
// then cleans it. An empty path stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return filepath.Clean(path)
}

// EnsureDir expands path and creates it with its parents. It returns the
// expanded path.
func EnsureDir(path string) (string, error) {
	dir := ExpandPath(path)
	if dir == "" {
		return "", fmt.Errorf("empty directory path")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	return dir, nil
}
