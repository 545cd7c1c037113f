package binary

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/config"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/payload"
)

// Manager resolves helper executables to paths under the cache root,
// materializing them from the embedded payloads on first use.
type Manager struct {
	cacheRoot string
	source    *Source
	logger    config.Logger
	group     singleflight.Group

	// materialize writes a payload to disk; replaced in tests.
	materialize func(p *EncodedPayload, dest string) error
}

// Config holds configuration for the binary manager
type Config struct {
	// CacheRoot is the directory holding materialized helpers, for example
	// ~/.cache/bin/swissknife. Empty means the home directory was unknown;
	// resolution then fails with ErrNoCacheRoot.
	CacheRoot string
	// Payloads is the payload directory. Nil uses EmbeddedPayloads.
	Payloads fs.FS
	// Logger receives debug output. Nil discards it.
	Logger config.Logger
}

// NewManager creates a new binary manager
func NewManager(cfg Config) *Manager {
	return &Manager{
		cacheRoot:   cfg.CacheRoot,
		source:      NewSource(cfg.Payloads),
		logger:      config.OrNop(cfg.Logger),
		materialize: Materialize,
	}
}

// CacheRoot returns the directory helpers are materialized into.
func (m *Manager) CacheRoot() string {
	return m.cacheRoot
}

// Source returns the payload source the manager installs from.
func (m *Manager) Source() *Source {
	return m.source
}

// GetBinaryPath returns the canonical path of a helper, or "" when there is
// no cache root.
func (m *Manager) GetBinaryPath(b Binary) string {
	if m.cacheRoot == "" {
		return ""
	}
	return filepath.Join(m.cacheRoot, b.FileName())
}

// IsInstalled checks if a helper is already materialized.
func (m *Manager) IsInstalled(b Binary) (bool, error) {
	if m.cacheRoot == "" {
		return false, nil
	}
	ok, err := isRegularFile(m.GetBinaryPath(b))
	if err != nil {
		return false, fmt.Errorf("stat binary: %w", err)
	}
	return ok, nil
}

// ResolveHelperPath returns the path of helper b, writing it from the
// embedded payload if it is not on disk yet. An existing file is trusted
// and returned without being read.
func (m *Manager) ResolveHelperPath(ctx context.Context, b Binary) (string, error) {
	if !b.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownBinary, b)
	}
	if m.cacheRoot == "" {
		return "", ErrNoCacheRoot
	}

	candidate := m.GetBinaryPath(b)
	if ok, _ := isRegularFile(candidate); ok {
		return candidate, nil
	}

	// The flight outlives any single caller: each caller waits on its own
	// ctx, and an abandoned flight ends once the lock is free or stale.
	flightCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(b.String(), func() (any, error) {
		return m.install(flightCtx, b, candidate)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			m.logger.Debug("joined in-flight materialization", "binary", b.String())
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("resolve %s: %w", b, ctx.Err())
	}
}

// install materializes b under the cross-process lock.
func (m *Manager) install(ctx context.Context, b Binary, candidate string) (string, error) {
	if err := os.MkdirAll(m.cacheRoot, 0755); err != nil {
		return "", ioErr("create cache directory", m.cacheRoot, err)
	}

	lock, err := acquireLock(ctx, lockPath(m.cacheRoot, b))
	if err != nil {
		return "", fmt.Errorf("lock %s: %w", b, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			m.logger.Warn("release materialization lock", "binary", b.String(), "error", err)
		}
	}()

	// Another process may have finished while we waited.
	if ok, _ := isRegularFile(candidate); ok {
		m.logger.Debug("helper materialized by another process", "binary", b.String(), "path", candidate)
		return candidate, nil
	}

	p, err := m.source.Load(b)
	if err != nil {
		return "", err
	}

	if err := m.materialize(p, candidate); err != nil {
		return "", fmt.Errorf("install %s: %w", b, err)
	}

	m.logger.Debug("materialized helper",
		"binary", b.String(),
		"path", candidate,
		"verified", p.Verified.String(),
	)

	return candidate, nil
}

// Install materializes b if it is not already present.
func (m *Manager) Install(ctx context.Context, b Binary) error {
	_, err := m.ResolveHelperPath(ctx, b)
	return err
}

// InstallAll installs every shipped helper.
func (m *Manager) InstallAll(ctx context.Context) error {
	for _, b := range All {
		if err := m.Install(ctx, b); err != nil {
			return fmt.Errorf("install %s: %w", b, err)
		}
	}
	return nil
}

// Status reports the on-disk state of b and whether it matches the
// embedded checksum.
func (m *Manager) Status(b Binary) (*Status, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBinary, b)
	}

	st := &Status{
		Binary:   b,
		Path:     m.GetBinaryPath(b),
		Embedded: m.source.Has(b),
	}
	if st.Path == "" {
		return st, nil
	}

	info, err := os.Stat(st.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return nil, fmt.Errorf("stat binary: %w", err)
	}
	if !info.Mode().IsRegular() {
		return st, nil
	}

	st.Installed = true
	st.Size = info.Size()
	st.ModTime = info.ModTime()

	sums, _, err := m.source.Checksums()
	if err != nil {
		// No manifest in this build: nothing to compare against.
		if errors.Is(err, ErrChecksumMissing) {
			return st, nil
		}
		return nil, err
	}
	want, ok := sums.Lookup(b.FileName())
	if !ok {
		return st, nil
	}

	f, err := os.Open(st.Path)
	if err != nil {
		return nil, fmt.Errorf("open binary: %w", err)
	}
	defer f.Close()

	got, err := payload.SumReader(f)
	if err != nil {
		return nil, fmt.Errorf("hash binary: %w", err)
	}
	st.Current = got == want

	return st, nil
}

// Clean removes materialized helpers and leftover temp files. Lock files of
// in-progress installs are left alone. It returns the removed paths.
func (m *Manager) Clean() ([]string, error) {
	if m.cacheRoot == "" {
		return nil, ErrNoCacheRoot
	}

	var removed []string
	for _, b := range All {
		targets := []string{m.GetBinaryPath(b)}
		temps, err := filepath.Glob(filepath.Join(m.cacheRoot, "."+b.FileName()+".tmp-*"))
		if err != nil {
			return removed, fmt.Errorf("glob temp files: %w", err)
		}
		targets = append(targets, temps...)

		for _, path := range targets {
			if err := os.Remove(path); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return removed, ioErr("remove", path, err)
			}
			removed = append(removed, path)
			m.logger.Debug("removed helper", "path", path)
		}
	}

	return removed, nil
}
