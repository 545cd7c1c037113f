// Package testutil provides utilities for testing swissknife in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points every home, config and cache variable swissknife
// (or os.UserConfigDir / os.UserCacheDir) can consult at a fresh temp
// directory, so tests never read the developer's config file or write
// into their real helper cache. It returns the temp home directory.
//
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()

	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData", "Roaming"))
	t.Setenv("LOCALAPPDATA", filepath.Join(home, "AppData", "Local"))

	// Overrides read by the swissknife CLI
	t.Setenv("SWISSKNIFE_CONFIG", "")
	t.Setenv("SWISSKNIFE_CACHE_ROOT", "")
	t.Setenv("SWISSKNIFE_LOG_LEVEL", "")

	dirs := []string{
		filepath.Join(home, "config"),
		filepath.Join(home, "cache"),
		filepath.Join(home, "AppData", "Roaming"),
		filepath.Join(home, "AppData", "Local"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return home
}
