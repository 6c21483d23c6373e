package store

import (
	"errors"
	"os"
	"time"
)

// ErrLockTimeout is returned when the lock marker could not be acquired
// within the configured timeout. It is the only store failure that should be
// surfaced to callers as a hard error; it usually means another writer is
// holding the lock, or a crashed process left a stale marker behind.
var ErrLockTimeout = errors.New("store: lock acquisition timed out")

const defaultPollInterval = 25 * time.Millisecond

// FileLock is a cooperative cross-process advisory lock built on exclusive
// creation of a sentinel file. It only serializes writers that go through it;
// a process that ignores the protocol is not stopped.
//
// There is no stale-lock expiry: if a holder crashes, the marker stays until
// an operator removes it. Acquire's timeout guarantees waiters fail cleanly
// instead of blocking forever.
type FileLock struct {
	path string
	poll time.Duration
}

// NewFileLock returns a lock backed by the marker file at path.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path, poll: defaultPollInterval}
}

// Acquire takes the lock, polling until the exclusive create succeeds or
// timeout elapses, in which case it returns ErrLockTimeout.
func (l *FileLock) Acquire(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f.Close()
		}
		if !os.IsExist(err) {
			return err
		}
		if time.Now().After(deadline) {
			return ErrLockTimeout
		}
		time.Sleep(l.poll)
	}
}

// Release removes the marker. Releasing a lock that is already gone is not
// an error, so Release is safe to defer unconditionally.
func (l *FileLock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
