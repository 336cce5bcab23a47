package fileio

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rpattn/reviewstore/internal/domain"
)

// Locker serializes read-modify-write cycles over a logical file across
// independent processes. The lock is advisory: it only protects callers
// that go through it. The interface is the seam that would let a
// multi-host deployment swap in a real lock service without touching
// callers.
type Locker interface {
	WithLock(path string, timeout time.Duration, fn func() error) error
}

type fileLocker struct {
	retryInterval time.Duration
}

// NewFileLocker returns a Locker backed by sentinel lock files. The
// sentinel for a target lives next to it as <path>.lock, so concurrent
// edits to different files never contend.
func NewFileLocker() Locker {
	return &fileLocker{retryInterval: 50 * time.Millisecond}
}

// WithLock runs fn while holding the exclusive lock for path. Acquisition
// spins on atomic sentinel creation until timeout elapses, then fails
// with domain.ErrLockTimeout. The sentinel is removed on every exit path,
// including a panic inside fn.
func (l *fileLocker) WithLock(path string, timeout time.Duration, fn func() error) error {
	lockPath := path + ".lock"
	deadline := time.Now().Add(timeout)

	var file *os.File
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			file = f
			break
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create lock file %s: %w", lockPath, err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", domain.ErrLockTimeout, path)
		}
		time.Sleep(l.retryInterval)
	}

	// The pid is informational, for operators inspecting a stale lock.
	file.WriteString(strconv.Itoa(os.Getpid()))

	defer func() {
		file.Close()
		os.Remove(lockPath)
	}()

	return fn()
}
