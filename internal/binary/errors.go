package binary

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks directory creation and file write failures.
	ErrIO = errors.New("i/o error")
	// ErrNoCacheRoot means the home directory was unknown, so there is
	// nowhere to put helper binaries.
	ErrNoCacheRoot = errors.New("cache root is not set (home directory unknown)")
	// ErrUnknownBinary is returned for a helper name swissknife does not ship.
	ErrUnknownBinary = errors.New("unknown helper binary")
	// ErrPayloadMissing means this build does not embed the helper.
	ErrPayloadMissing = errors.New("helper payload not embedded in this build")
	// ErrChecksumMissing means checksums.txt has no entry for a payload.
	ErrChecksumMissing = errors.New("no checksum recorded for payload")
	// ErrChecksumMismatch means a decoded payload does not hash to its checksum.
	ErrChecksumMismatch = errors.New("payload checksum mismatch")
	// ErrSignature means checksums.txt failed OpenPGP verification.
	ErrSignature = errors.New("payload signature verification failed")
)

// IOError is a filesystem failure while materializing a helper.
// errors.Is matches both ErrIO and the underlying os error.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns ErrIO and the underlying error.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

func ioErr(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
