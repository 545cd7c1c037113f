package binary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// staleLockThreshold is the age after which a materialization lock is
	// assumed to belong to a dead process. Writing a helper takes well
	// under a second.
	staleLockThreshold = 2 * time.Minute

	// lockPollInterval is how often a waiting process retries the lock.
	lockPollInterval = 50 * time.Millisecond
)

// ErrLockExists is returned by tryLock when another process holds the lock.
var ErrLockExists = errors.New("materialization lock exists: another process is installing this helper")

// fileLock is a cross-process lock on one helper's materialization.
type fileLock struct {
	path string
	file *os.File
}

// lockPath returns the lock file for b inside cacheRoot.
func lockPath(cacheRoot string, b Binary) string {
	return filepath.Join(cacheRoot, "."+b.String()+".lock")
}

// acquireLock waits until the lock at path is free or ctx is done.
// Stale locks are removed.
func acquireLock(ctx context.Context, path string) (*fileLock, error) {
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		lock, err := tryLock(path)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, ErrLockExists) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for %s: %w", path, ctx.Err())
		case <-ticker.C:
		}
	}
}

// tryLock makes one attempt to create the lock file.
// Uses O_CREATE|O_EXCL for atomic lock creation.
func tryLock(path string) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, ioErr("create lock file", path, err)
		}
		if stale, _ := isLockStale(path); !stale {
			return nil, ErrLockExists
		}
		if !reclaimStaleLock(path) {
			return nil, ErrLockExists
		}
		file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, ErrLockExists
		}
	}

	// Write lock metadata (PID and timestamp)
	lockData := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(path)
		return nil, ioErr("write lock file", path, err)
	}

	return &fileLock{path: path, file: file}, nil
}

// reclaimStaleLock moves the lock at path aside and deletes it if it is
// still stale. A waiter that judged the lock stale may race with one that
// already replaced it; the fresh lock is then put back and false returned.
func reclaimStaleLock(path string) bool {
	aside := fmt.Sprintf("%s.stale-%d-%d", path, os.Getpid(), time.Now().UnixNano())
	if err := os.Rename(path, aside); err != nil {
		return false
	}

	if stale, err := isLockStale(aside); err == nil && !stale {
		// Link never replaces a lock created meanwhile. Rename is the
		// fallback for filesystems without hard links.
		if err := os.Link(aside, path); err != nil && !os.IsExist(err) {
			os.Rename(aside, path)
		}
		os.Remove(aside)
		return false
	}

	os.Remove(aside)
	return true
}

// Release closes and removes the lock file.
func (l *fileLock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return ioErr("remove lock file", l.path, err)
		}
		l.path = ""
	}

	return nil
}

// isLockStale checks if a lock file is older than staleLockThreshold.
func isLockStale(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return time.Since(info.ModTime()) > staleLockThreshold, nil
}
