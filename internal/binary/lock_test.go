package binary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTryLock(t *testing.T) {
	path := lockPath(t.TempDir(), Nircmd)

	lock, err := tryLock(path)
	if err != nil {
		t.Fatalf("tryLock() error = %v", err)
	}

	if _, err := tryLock(path); !errors.Is(err, ErrLockExists) {
		t.Errorf("second tryLock() error = %v, want ErrLockExists", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lock file still present after Release")
	}

	// Released lock can be taken again.
	lock, err = tryLock(path)
	if err != nil {
		t.Fatalf("tryLock() after release error = %v", err)
	}
	lock.Release()
}

func TestTryLock_Stale(t *testing.T) {
	path := lockPath(t.TempDir(), Cmdmp3)
	if err := os.WriteFile(path, []byte("pid=1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * staleLockThreshold)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	lock, err := tryLock(path)
	if err != nil {
		t.Fatalf("tryLock() on stale lock error = %v", err)
	}
	lock.Release()
}

func TestAcquireLock_WaitsForRelease(t *testing.T) {
	path := lockPath(t.TempDir(), Nircmd)

	held, err := tryLock(path)
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(3 * lockPollInterval)
		held.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lock, err := acquireLock(ctx, path)
	if err != nil {
		t.Fatalf("acquireLock() error = %v", err)
	}
	lock.Release()
}

func TestAcquireLock_ContextCanceled(t *testing.T) {
	path := lockPath(t.TempDir(), Nircmd)

	held, err := tryLock(path)
	if err != nil {
		t.Fatal(err)
	}
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 2*lockPollInterval)
	defer cancel()

	_, err = acquireLock(ctx, path)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("acquireLock() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTryLock_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", ".nircmd.lock")
	_, err := tryLock(path)
	if !errors.Is(err, ErrIO) {
		t.Errorf("tryLock() error = %v, want ErrIO", err)
	}
}

func TestReclaimStaleLock_KeepsFreshLock(t *testing.T) {
	path := lockPath(t.TempDir(), Nircmd)

	// A waiter judged the old lock stale, but another waiter already
	// replaced it with this fresh one.
	fresh, err := tryLock(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fresh.Release()
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if reclaimStaleLock(path) {
		t.Fatal("reclaimStaleLock() removed a fresh lock")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("fresh lock gone after reclaim attempt: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("lock content = %q, want %q", got, want)
	}
	if _, err := tryLock(path); !errors.Is(err, ErrLockExists) {
		t.Errorf("tryLock() error = %v, want ErrLockExists", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("cache dir has %d entries, want only the lock", len(entries))
	}
}

func TestReclaimStaleLock_RemovesStaleLock(t *testing.T) {
	path := lockPath(t.TempDir(), Cmdmp3)
	if err := os.WriteFile(path, []byte("pid=1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * staleLockThreshold)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	if !reclaimStaleLock(path) {
		t.Fatal("reclaimStaleLock() kept a stale lock")
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after reclaim, want 0", len(entries))
	}
}

func TestRelease_Idempotent(t *testing.T) {
	path := lockPath(t.TempDir(), Nircmd)
	lock, err := tryLock(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}

	other, err := tryLock(path)
	if err != nil {
		t.Fatal(err)
	}
	defer other.Release()

	// A second Release must not remove a lock taken since.
	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("second Release removed another holder's lock: %v", err)
	}
}
