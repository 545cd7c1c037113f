package binary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/payload"
)

// Materialize decodes p and writes the executable to dest.
//
// The bytes go to a temporary file in dest's directory which is synced,
// marked executable and renamed over dest, so dest never holds a partial
// write. The parent directory must already exist. An existing dest is
// replaced. If the rename fails but dest exists afterwards (another writer
// finished first, or Windows refuses to replace a running executable) the
// call succeeds.
func Materialize(p *EncodedPayload, dest string) error {
	if p == nil {
		return fmt.Errorf("materialize %s: nil payload", dest)
	}

	data, err := payload.Decode(p.Text)
	if err != nil {
		return fmt.Errorf("materialize %s: %w", p.Binary, err)
	}

	if p.Checksum != "" {
		if got := payload.Sum(data); got != p.Checksum {
			return fmt.Errorf("%w: %s: expected %s, got %s", ErrChecksumMismatch, p.Binary.FileName(), p.Checksum, got)
		}
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return ioErr("create temp file in", dir, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return ioErr("write", tmpPath, err)
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return ioErr("sync", tmpPath, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return ioErr("close", tmpPath, err)
	}

	if err := SetExecutable(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		if exists, _ := isRegularFile(dest); exists {
			return nil
		}
		return ioErr("rename onto", dest, err)
	}

	return nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	// Set permissions to 0755 (rwxr-xr-x)
	if err := os.Chmod(path, 0755); err != nil {
		return ioErr("chmod", path, err)
	}
	return nil
}

// isRegularFile reports whether path names a regular file.
func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
