package swissknife

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidArgument is returned when a facade argument is out of range.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

// SpeakOptions controls text-to-speech. Zero fields take the client's
// configured defaults (rate 0, volume 50 unless configured otherwise).
type SpeakOptions struct {
	// Rate is the speech rate, from -10 (very slow) to 10 (very fast).
	Rate int
	// Volume is the speech volume, from 0 to 100.
	Volume int
}

// NotificationOptions controls a tray balloon. Zero fields take the
// client's configured defaults (icon 77, 5s unless configured otherwise).
type NotificationOptions struct {
	// Icon is an icon index in shell32.dll.
	Icon int
	// Timeout is how long the balloon stays visible.
	Timeout time.Duration
}

// Monitor selects what a screenshot captures.
type Monitor string

const (
	// Single captures the primary screen.
	Single Monitor = "Single"
	// Dual captures all screens.
	Dual Monitor = "Dual"
	// Window captures the active window.
	Window Monitor = "Window"
)

// command returns the NirCmd subcommand for m. The zero value is Single.
func (m Monitor) command() (string, error) {
	switch m {
	case Single, "":
		return "savescreenshot", nil
	case Dual:
		return "savescreenshotfull", nil
	case Window:
		return "savescreenshotwin", nil
	default:
		return "", invalidf("unknown monitor %q", string(m))
	}
}

// Region is a screen rectangle in pixels.
type Region struct {
	X, Y          int
	Width, Height int
}

// FindMode selects how WinAction matches a window title.
type FindMode string

const (
	// Equals matches the whole title.
	Equals FindMode = "Equals"
	// Contains matches any part of the title.
	Contains FindMode = "Contains"
	// StartsWith matches the beginning of the title.
	StartsWith FindMode = "StartsWith"
	// EndsWith matches the end of the title.
	EndsWith FindMode = "EndsWith"
)

// selector returns the NirCmd window selector for f. The zero value is Equals.
func (f FindMode) selector() (string, error) {
	switch f {
	case Equals, "":
		return "title", nil
	case Contains:
		return "ititle", nil
	case StartsWith:
		return "stitle", nil
	case EndsWith:
		return "etitle", nil
	default:
		return "", invalidf("unknown find mode %q", string(f))
	}
}

// WinAction is a NirCmd window action. Any action NirCmd accepts may be
// used; the constants cover the common ones.
type WinAction string

const (
	Activate WinAction = "Activate"
	Close    WinAction = "Close"
	Flash    WinAction = "Flash"
	Hide     WinAction = "Hide"
	Max      WinAction = "Max"
	Min      WinAction = "Min"
	Normal   WinAction = "Normal"
	Show     WinAction = "Show"
)

// ParseMonitor parses a monitor name case-insensitively.
func ParseMonitor(s string) (Monitor, error) {
	for _, m := range []Monitor{Single, Dual, Window} {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", invalidf("unknown monitor %q (want Single, Dual or Window)", s)
}

// ParseFindMode parses a find mode name case-insensitively.
func ParseFindMode(s string) (FindMode, error) {
	for _, f := range []FindMode{Equals, Contains, StartsWith, EndsWith} {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", invalidf("unknown find mode %q (want Equals, Contains, StartsWith or EndsWith)", s)
}
