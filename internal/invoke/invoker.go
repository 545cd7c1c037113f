package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/config"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/platform"
)

// maxLoggedOutput bounds how much captured helper output is logged.
const maxLoggedOutput = 512

// Options configures an Invoker.
type Options struct {
	// Family is the host platform family. Only Windows runs helpers.
	Family platform.Family
	// HostOS names the host in the unsupported-platform diagnostic.
	// Defaults to Family.String().
	HostOS string
	// Stderr receives the unsupported-platform diagnostic. Defaults to
	// os.Stderr.
	Stderr io.Writer
	// Logger receives invocation logs. Nil discards them.
	Logger config.Logger
}

// Invoker starts helper processes and waits for their exit status.
// It is safe for concurrent use.
type Invoker struct {
	family platform.Family
	hostOS string
	stderr io.Writer
	logger config.Logger

	// command builds the process; replaced in tests.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New creates an Invoker.
func New(opts Options) *Invoker {
	hostOS := opts.HostOS
	if hostOS == "" {
		hostOS = opts.Family.String()
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Invoker{
		family:  opts.Family,
		hostOS:  hostOS,
		stderr:  stderr,
		logger:  config.OrNop(opts.Logger),
		command: exec.CommandContext,
	}
}

// Supported reports whether helpers can run on this host.
func (i *Invoker) Supported() bool {
	switch i.family {
	case platform.Windows:
		return true
	case platform.Linux, platform.MacOS, platform.Other:
		return false
	default:
		return false
	}
}

// unsupported writes the diagnostic and returns the sentinel exit code.
func (i *Invoker) unsupported() ExitCode {
	fmt.Fprintf(i.stderr, "swissknife: only Windows is supported (host: %s)\n", i.hostOS)
	i.logger.Warn("helper not run on unsupported platform", "host", i.hostOS)
	return ExitUnsupported
}

// Run starts path with args, waits for it and returns its exit code.
//
// On a non-Windows host nothing is started: a diagnostic is written to the
// configured stderr and ExitUnsupported is returned with a nil error.
// Standard output and error of the child are captured and only logged at
// debug level. If ctx ends first the child is killed and ctx's error is
// returned.
func (i *Invoker) Run(ctx context.Context, path string, args []string) (ExitCode, error) {
	if !i.Supported() {
		return i.unsupported(), nil
	}

	if err := ctx.Err(); err != nil {
		return ExitUnsupported, fmt.Errorf("run %s: %w", path, err)
	}

	id := uuid.NewString()
	start := time.Now()

	cmd := i.command(ctx, path, args...)
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	i.logger.Debug("starting helper", "invocation_id", id, "path", path, "args", args)

	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ExitUnsupported, fmt.Errorf("run %s: %w", path, ctxErr)
		}
		i.logger.Debug("helper failed to start", "invocation_id", id, "error", err)
		return ExitUnsupported, &SpawnError{Path: path, Err: err}
	}

	err := cmd.Wait()
	code := ExitUnsupported
	if cmd.ProcessState != nil {
		code = ExitCode(cmd.ProcessState.ExitCode())
	}

	i.logger.Debug("helper exited",
		"invocation_id", id,
		"exit_code", int(code),
		"duration", time.Since(start),
		"stdout", truncate(stdout.String()),
		"stderr", truncate(stderr.String()),
	)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return code, fmt.Errorf("run %s: %w", path, ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return code, nil
		}
		return code, fmt.Errorf("wait for %s: %w", path, err)
	}

	return code, nil
}

func truncate(s string) string {
	if len(s) <= maxLoggedOutput {
		return s
	}
	return s[:maxLoggedOutput] + "..."
}
