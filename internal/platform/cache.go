package platform

import (
	"path/filepath"
)

// CacheSuffix is appended to the per-OS cache directory.
const CacheSuffix = "bin/swissknife"

// HomeEnv returns the environment variable holding the user's home or
// profile directory on the given family.
func HomeEnv(f Family) string {
	switch f {
	case Windows:
		return "USERPROFILE"
	case Linux, MacOS, Other:
		return "HOME"
	default:
		return "HOME"
	}
}

// cacheDir returns the OS-specific cache directory relative to home.
func cacheDir(f Family) string {
	switch f {
	case Windows:
		return "AppData/Local"
	case MacOS:
		return "Library/Caches"
	case Linux, Other:
		return ".cache"
	default:
		return ".cache"
	}
}

// CacheRoot returns the directory helper binaries are materialized into:
//
//	Windows  <home>/AppData/Local/bin/swissknife
//	Linux    <home>/.cache/bin/swissknife
//	macOS    <home>/Library/Caches/bin/swissknife
//
// An empty home yields an empty path. No other location is guessed.
func CacheRoot(f Family, home string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, filepath.FromSlash(cacheDir(f)), filepath.FromSlash(CacheSuffix))
}

// CacheRootFromEnv looks up the home variable for f with getenv and
// returns CacheRoot for it.
func CacheRootFromEnv(f Family, getenv func(string) string) string {
	return CacheRoot(f, getenv(HomeEnv(f)))
}
