package binary

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/payload"
)

// Embedded helper payloads, written by swissknife-pack.
//
//go:embed payload
var embedded embed.FS

const (
	// SignatureFile is the detached signature over payload.ChecksumFile.
	SignatureFile = payload.ChecksumFile + ".asc"
	// SigningKeyFile is the public key that signed SignatureFile.
	SigningKeyFile = "signing-key.asc"
)

// EmbeddedPayloads returns the payload directory compiled into this build.
func EmbeddedPayloads() fs.FS {
	sub, err := fs.Sub(embedded, "payload")
	if err != nil {
		// "payload" is a fixed, valid path; Sub cannot fail on it.
		panic(fmt.Sprintf("embedded payload directory: %v", err))
	}
	return sub
}

// Source reads encoded payloads and their checksum manifest from a
// directory laid out like payload/.
type Source struct {
	fsys fs.FS
}

// NewSource returns a Source over fsys. A nil fsys uses EmbeddedPayloads.
func NewSource(fsys fs.FS) *Source {
	if fsys == nil {
		fsys = EmbeddedPayloads()
	}
	return &Source{fsys: fsys}
}

// Has reports whether the source carries a payload for b.
func (s *Source) Has(b Binary) bool {
	info, err := fs.Stat(s.fsys, b.PayloadName())
	return err == nil && info.Mode().IsRegular()
}

// Checksums reads and, when a signature is present, authenticates the
// checksum manifest.
func (s *Source) Checksums() (*payload.Checksums, VerificationMethod, error) {
	manifest, err := fs.ReadFile(s.fsys, payload.ChecksumFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, VerificationNone, fmt.Errorf("%w: %s not found", ErrChecksumMissing, payload.ChecksumFile)
		}
		return nil, VerificationNone, fmt.Errorf("read %s: %w", payload.ChecksumFile, err)
	}

	method := VerificationSHA256

	sig, err := fs.ReadFile(s.fsys, SignatureFile)
	switch {
	case err == nil:
		key, keyErr := fs.ReadFile(s.fsys, SigningKeyFile)
		if keyErr != nil {
			return nil, VerificationNone, fmt.Errorf("%w: read %s: %v", ErrSignature, SigningKeyFile, keyErr)
		}
		verifier, keyErr := NewVerifier(key)
		if keyErr != nil {
			return nil, VerificationNone, fmt.Errorf("%w: %v", ErrSignature, keyErr)
		}
		if err := verifier.VerifySignature(manifest, sig); err != nil {
			return nil, VerificationNone, err
		}
		method = VerificationGPG
	case errors.Is(err, fs.ErrNotExist):
		// Unsigned manifest: checksums only.
	default:
		return nil, VerificationNone, fmt.Errorf("read %s: %w", SignatureFile, err)
	}

	sums, err := payload.ParseChecksums(bytesReader(manifest))
	if err != nil {
		return nil, VerificationNone, err
	}

	return sums, method, nil
}

// RegenerateHint is the command that rebuilds the payload for b from
// bin/<name>.exe.
func RegenerateHint(b Binary) string {
	return "run: swissknife-pack pack --src bin --bin " + b.String()
}

// Load returns the encoded payload for b together with its expected checksum.
func (s *Source) Load(b Binary) (*EncodedPayload, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBinary, b)
	}

	text, err := fs.ReadFile(s.fsys, b.PayloadName())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrPayloadMissing, b.PayloadName(), RegenerateHint(b))
		}
		return nil, fmt.Errorf("read payload %s: %w", b.PayloadName(), err)
	}

	sums, method, err := s.Checksums()
	if err != nil {
		return nil, err
	}

	sum, ok := sums.Lookup(b.FileName())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChecksumMissing, b.FileName())
	}

	return &EncodedPayload{
		Binary:   b,
		Text:     string(text),
		Checksum: sum,
		Verified: method,
	}, nil
}
