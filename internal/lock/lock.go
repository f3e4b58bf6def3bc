// Package lock serializes driver-profile writes across rtxswitch processes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrHeld is returned by TryLock when another process holds the lock.
var ErrHeld = errors.New("lock held by another rtxswitch process")

// retryDelay is how often LockContext polls a held lock.
const retryDelay = 100 * time.Millisecond

// FileLock is an exclusive cross-process lock backed by gofrs/flock.
// Works on all platforms (Unix, Linux, macOS, Windows).
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// New returns an unlocked FileLock for the lock file at path.
func New(path string) *FileLock {
	return &FileLock{
		path:  path,
		flock: flock.New(path),
	}
}

func (l *FileLock) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	return nil
}

// TryLock acquires the lock without blocking. It returns ErrHeld when the
// lock belongs to someone else.
func (l *FileLock) TryLock() error {
	if err := l.ensureDir(); err != nil {
		return err
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return ErrHeld
	}
	l.locked = true
	return nil
}

// LockContext blocks until the lock is acquired or ctx is done.
func (l *FileLock) LockContext(ctx context.Context) error {
	if err := l.ensureDir(); err != nil {
		return err
	}

	acquired, err := l.flock.TryLockContext(ctx, retryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrHeld, ctx.Err())
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return ErrHeld
	}
	l.locked = true
	return nil
}

// Unlock releases the lock. It is safe to call on an unlocked FileLock.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the path to the lock file.
func (l *FileLock) Path() string {
	return l.path
}

// IsLocked returns true if this FileLock holds the lock.
func (l *FileLock) IsLocked() bool {
	return l.locked
}
