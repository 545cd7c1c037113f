package platform

import (
	"path/filepath"
	"testing"
)

func TestCacheRoot(t *testing.T) {
	home := filepath.FromSlash("/home/user")

	tests := []struct {
		name   string
		family Family
		home   string
		want   string
	}{
		{"windows", Windows, home, filepath.Join(home, "AppData", "Local", "bin", "swissknife")},
		{"linux", Linux, home, filepath.Join(home, ".cache", "bin", "swissknife")},
		{"macos", MacOS, home, filepath.Join(home, "Library", "Caches", "bin", "swissknife")},
		{"other", Other, home, filepath.Join(home, ".cache", "bin", "swissknife")},
		{"empty_home", Windows, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CacheRoot(tt.family, tt.home); got != tt.want {
				t.Errorf("CacheRoot(%v, %q) = %q, want %q", tt.family, tt.home, got, tt.want)
			}
		})
	}
}

func TestCacheRootFromEnv(t *testing.T) {
	env := map[string]string{
		"USERPROFILE": filepath.FromSlash("/profiles/alice"),
		"HOME":        filepath.FromSlash("/home/alice"),
	}
	getenv := func(key string) string { return env[key] }

	if got, want := CacheRootFromEnv(Windows, getenv), CacheRoot(Windows, env["USERPROFILE"]); got != want {
		t.Errorf("windows: got %q, want %q", got, want)
	}
	if got, want := CacheRootFromEnv(Linux, getenv), CacheRoot(Linux, env["HOME"]); got != want {
		t.Errorf("linux: got %q, want %q", got, want)
	}

	empty := func(string) string { return "" }
	if got := CacheRootFromEnv(MacOS, empty); got != "" {
		t.Errorf("unset home: got %q, want empty", got)
	}
}

func TestHomeEnv(t *testing.T) {
	if got := HomeEnv(Windows); got != "USERPROFILE" {
		t.Errorf("HomeEnv(Windows) = %q", got)
	}
	for _, f := range []Family{Linux, MacOS, Other} {
		if got := HomeEnv(f); got != "HOME" {
			t.Errorf("HomeEnv(%v) = %q", f, got)
		}
	}
}
