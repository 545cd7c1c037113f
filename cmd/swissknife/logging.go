package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger returns a slog logger writing through a charmbracelet/log
// handler at the named level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "swissknife",
		ReportTimestamp: lvl <= log.DebugLevel,
	})

	return slog.New(handler), nil
}
