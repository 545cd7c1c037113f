package invoke

import "strconv"

// ExitCode represents a helper process exit status.
// The zero value (0) means success.
type ExitCode int

// ExitUnsupported is returned instead of running anything when the host is
// not Windows.
const ExitUnsupported ExitCode = -1

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// IsUnsupported returns true for the unsupported-platform sentinel.
func (c ExitCode) IsUnsupported() bool { return c == ExitUnsupported }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
