// Package fsutil holds small path helpers shared by config and template loading.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// ~/sites/prompts
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists reports whether something exists at path. Errors other than
// "not exist" (e.g. permission denied) count as existing so callers surface them on open.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// FirstExisting returns the first of paths that exists after home expansion, or "".
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		exp, err := ExpandHome(p)
		if err != nil || exp == "" {
			continue
		}
		if PathExists(exp) {
			return exp
		}
	}
	return ""
}
