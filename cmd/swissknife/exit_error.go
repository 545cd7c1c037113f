package main

import "fmt"

// ExitError carries a helper's exit code out of a RunE handler.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("helper exited with status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitStatus maps a helper exit code onto the command's result. The
// unsupported-platform sentinel becomes status 1; its diagnostic has
// already been printed.
func exitStatus(code int) error {
	switch {
	case code == 0:
		return nil
	case code < 0:
		return &ExitError{Code: 1, Err: fmt.Errorf("helper not run")}
	default:
		return &ExitError{Code: code}
	}
}
