package invoke

import (
	"errors"
	"fmt"
)

// ErrSpawn is the sentinel error wrapped by SpawnError.
var ErrSpawn = errors.New("failed to start helper process")

// SpawnError is returned when a helper could not be started at all, as
// opposed to starting and exiting non-zero.
type SpawnError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrSpawn and the underlying error so callers can use
// errors.Is for either.
func (e *SpawnError) Unwrap() []error { return []error{ErrSpawn, e.Err} }
