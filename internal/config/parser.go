package config

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
	base     Config
	home     string
}

// NewParser creates a new config parser with the given platform detector.
// Parsed files are applied on top of Defaults().
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, base: Defaults()}
}

// WithBase sets the configuration that parsed values are applied to.
func (p *Parser) WithBase(base Config) *Parser {
	p.base = base
	return p
}

// WithHome sets the directory "~/" expands to in cache_root.
func (p *Parser) WithHome(home string) *Parser {
	p.home = home
	return p
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return p.extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "swissknife" table on top of the parser's base.
func (p *Parser) extractConfig(L *lua.LState) (*Config, error) {
	cfg := p.base

	root := L.GetGlobal(luaGlobalSwissKnife)
	switch root.Type() {
	case lua.LTNil:
		// A file that only sets locals is valid; nothing to apply.
	case lua.LTTable:
		if err := p.applyTable(&cfg, root.(*lua.LTable)); err != nil {
			return nil, err
		}
	default:
		return nil, &ParseError{
			Message: "invalid 'swissknife' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return &cfg, nil
}

func (p *Parser) applyTable(cfg *Config, table *lua.LTable) error {
	if v, ok, err := stringField(table, luaFieldCacheRoot); err != nil {
		return err
	} else if ok {
		cfg.CacheRoot = p.expandHome(v)
	}

	if v, ok, err := stringField(table, luaFieldLogLevel); err != nil {
		return err
	} else if ok {
		cfg.LogLevel = strings.ToLower(v)
	}

	if speak, ok, err := tableField(table, luaFieldSpeak); err != nil {
		return err
	} else if ok {
		if err := intInto(speak, luaFieldRate, luaFieldSpeak, &cfg.Speak.Rate); err != nil {
			return err
		}
		if err := intInto(speak, luaFieldVolume, luaFieldSpeak, &cfg.Speak.Volume); err != nil {
			return err
		}
	}

	if notify, ok, err := tableField(table, luaFieldNotify); err != nil {
		return err
	} else if ok {
		if err := intInto(notify, luaFieldIcon, luaFieldNotify, &cfg.Notification.Icon); err != nil {
			return err
		}
		if err := intInto(notify, luaFieldTimeout, luaFieldNotify, &cfg.Notification.TimeoutMs); err != nil {
			return err
		}
	}

	return nil
}

// expandHome expands a leading "~/" against the parser's home directory.
func (p *Parser) expandHome(path string) string {
	if p.home == "" {
		return path
	}
	if path == "~" {
		return p.home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(p.home, path[2:])
	}
	return path
}

// stringField returns a string field. nil values (for example from
// platform.when) count as unset.
func stringField(table *lua.LTable, name string) (string, bool, error) {
	v := table.RawGetString(name)
	switch v.Type() {
	case lua.LTNil:
		return "", false, nil
	case lua.LTString:
		return v.String(), true, nil
	default:
		return "", false, &ParseError{
			Message: fmt.Sprintf("invalid '%s' field", name),
			Detail:  fmt.Sprintf("expected string, got %s", v.Type()),
		}
	}
}

func tableField(table *lua.LTable, name string) (*lua.LTable, bool, error) {
	v := table.RawGetString(name)
	switch v.Type() {
	case lua.LTNil:
		return nil, false, nil
	case lua.LTTable:
		return v.(*lua.LTable), true, nil
	default:
		return nil, false, &ParseError{
			Message: fmt.Sprintf("invalid '%s' field", name),
			Detail:  fmt.Sprintf("expected table, got %s", v.Type()),
		}
	}
}

// intInto stores an integral number field into dst when present.
func intInto(table *lua.LTable, name, parent string, dst *int) error {
	v := table.RawGetString(name)
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTNumber:
		n := float64(v.(lua.LNumber))
		if n != math.Trunc(n) {
			return &ParseError{
				Message: fmt.Sprintf("invalid '%s.%s' field", parent, name),
				Detail:  fmt.Sprintf("expected integer, got %v", n),
			}
		}
		*dst = int(n)
		return nil
	default:
		return &ParseError{
			Message: fmt.Sprintf("invalid '%s.%s' field", parent, name),
			Detail:  fmt.Sprintf("expected number, got %s", v.Type()),
		}
	}
}
