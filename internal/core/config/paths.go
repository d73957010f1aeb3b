package config

import (
	"os"
	"path/filepath"
	"strings"
)

// configNames are tried in order in each directory.
var configNames = []string{DefaultFile, ".astfind.toml", "astfind.yaml", "astfind.yml"}

// DiscoverConfig looks for a config file in dir and its parents. The walk
// stops after the first directory holding a .git marker.
func DiscoverConfig(dir string) (string, bool) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}

	for {
		for _, name := range configNames {
			candidate := filepath.Join(root, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		if _, err := os.Stat(filepath.Join(root, ".git")); err == nil {
			return "", false
		}
		parent := filepath.Dir(root)
		if parent == root {
			return "", false
		}
		root = parent
	}
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}
