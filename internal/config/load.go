package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/platform"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.lua"

// LoadOptions controls Load.
type LoadOptions struct {
	// Path of the config file. When empty, DefaultPath() is tried and a
	// missing file is not an error.
	Path string

	// Detector supplies the host family. Defaults to platform.NewDetector().
	Detector platform.Detector

	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string
}

// DefaultPath returns <user config dir>/swissknife/config.lua, or "" if the
// user config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "swissknife", FileName)
}

// Load resolves the configuration: built-in defaults, the cache root derived
// from the home directory environment variable, then the Lua file.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	detector := opts.Detector
	if detector == nil {
		detector = platform.NewDetector()
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	info, err := detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	home := getenv(platform.HomeEnv(info.Family))
	base := Defaults()
	base.CacheRoot = platform.CacheRoot(info.Family, home)

	path := opts.Path
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return &base, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &base, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := NewParser(platform.StaticDetector{Info: *info}).
		WithBase(base).
		WithHome(home).
		ParseString(ctx, string(content))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Source = path

	return cfg, nil
}
