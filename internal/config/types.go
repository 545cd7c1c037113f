// Package config loads swissknife settings from an optional Lua file.
//
// The file is executed in a sandboxed gopher-lua VM (no os, io, or module
// loading) with a read-only `platform` table injected, and must assign a
// global `swissknife` table:
//
//	swissknife = {
//	  cache_root   = platform.when(platform.is_windows, "D:/tools/swissknife"),
//	  log_level    = "info",
//	  speak        = { rate = 2, volume = 80 },
//	  notification = { icon = 77, timeout = 5000 },
//	}
//
// Every field is optional. The cache root defaults to the per-user cache
// directory computed by the platform package from the home directory
// environment variable; Load reads the environment exactly once.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Config is the resolved swissknife configuration.
type Config struct {
	// CacheRoot is the directory helper binaries are materialized into.
	// Empty when the home directory is unknown.
	CacheRoot string `json:"cache_root"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`

	Speak        SpeakDefaults        `json:"speak"`
	Notification NotificationDefaults `json:"notification"`

	// Source is the file the config was read from, empty for built-in defaults.
	Source string `json:"source,omitempty"`
}

// SpeakDefaults are applied to Speak calls that leave rate or volume unset.
type SpeakDefaults struct {
	Rate   int `json:"rate"`
	Volume int `json:"volume"`
}

// NotificationDefaults are applied to tray balloon notifications.
type NotificationDefaults struct {
	Icon      int `json:"icon"`
	TimeoutMs int `json:"timeout"`
}

// Defaults returns the built-in configuration with no cache root.
func Defaults() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		Speak: SpeakDefaults{
			Rate:   DefaultSpeakRate,
			Volume: DefaultSpeakVolume,
		},
		Notification: NotificationDefaults{
			Icon:      DefaultNotificationIcon,
			TimeoutMs: DefaultNotificationTimeout,
		},
	}
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if c.CacheRoot != "" && !filepath.IsAbs(c.CacheRoot) {
		return &ValidationError{Field: luaFieldCacheRoot, Message: fmt.Sprintf("must be an absolute path (got %q)", c.CacheRoot)}
	}

	if !logLevels[strings.ToLower(c.LogLevel)] {
		return &ValidationError{Field: luaFieldLogLevel, Message: fmt.Sprintf("unknown level %q (expected debug, info, warn or error)", c.LogLevel)}
	}

	if c.Speak.Rate < MinSpeakRate || c.Speak.Rate > MaxSpeakRate {
		return &ValidationError{
			Field:   "speak.rate",
			Message: fmt.Sprintf("%d out of range [%d, %d]", c.Speak.Rate, MinSpeakRate, MaxSpeakRate),
		}
	}

	if c.Speak.Volume < MinVolume || c.Speak.Volume > MaxVolume {
		return &ValidationError{
			Field:   "speak.volume",
			Message: fmt.Sprintf("%d out of range [%d, %d]", c.Speak.Volume, MinVolume, MaxVolume),
		}
	}

	if c.Notification.Icon < 0 {
		return &ValidationError{Field: "notification.icon", Message: "cannot be negative"}
	}

	if c.Notification.TimeoutMs < 0 {
		return &ValidationError{Field: "notification.timeout", Message: "cannot be negative"}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}
