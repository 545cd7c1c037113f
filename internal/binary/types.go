package binary

import (
	"fmt"
	"time"
)

// Binary is the logical name of a helper executable.
type Binary string

const (
	// Nircmd is the general-purpose Windows automation tool.
	Nircmd Binary = "nircmd"
	// Cmdmp3 is the command-line MP3 player.
	Cmdmp3 Binary = "cmdmp3"
)

// All lists every helper shipped with swissknife.
var All = []Binary{Nircmd, Cmdmp3}

// String returns the string representation of the binary
func (b Binary) String() string {
	return string(b)
}

// FileName is the on-disk name of the materialized executable.
func (b Binary) FileName() string {
	return string(b) + ".exe"
}

// PayloadName is the name of the encoded payload in the payload directory.
func (b Binary) PayloadName() string {
	return string(b) + ".b64"
}

// Valid reports whether b is one of the shipped helpers.
func (b Binary) Valid() bool {
	for _, known := range All {
		if b == known {
			return true
		}
	}
	return false
}

// Parse returns the Binary called name.
func Parse(name string) (Binary, error) {
	b := Binary(name)
	if !b.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownBinary, name)
	}
	return b, nil
}

// VerificationMethod indicates how a payload was verified
type VerificationMethod int

const (
	// VerificationNone means no checksum was applied.
	VerificationNone VerificationMethod = iota
	// VerificationSHA256 means the decoded bytes matched checksums.txt.
	VerificationSHA256
	// VerificationGPG means checksums.txt carried a valid signature and the
	// decoded bytes matched it.
	VerificationGPG
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// EncodedPayload is the text form of one helper executable.
type EncodedPayload struct {
	Binary Binary
	// Text is the wrapped base64 encoding of the executable.
	Text string
	// Checksum is the expected hex SHA-256 of the decoded bytes. Empty
	// skips the check.
	Checksum string
	Verified VerificationMethod
}

// Status describes the materialized state of a helper.
type Status struct {
	Binary    Binary
	Path      string
	Installed bool
	Size      int64
	ModTime   time.Time
	// Current is true when the installed file matches the embedded checksum.
	Current bool
	// Embedded is false when this build carries no payload for the helper.
	Embedded bool
}
