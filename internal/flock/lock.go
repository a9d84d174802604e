package flock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/liftoff/internal/errors"
)

// Lock is a held run lock.
type Lock struct {
	path string
	file *os.File
}

// PathFor returns the lock file for a project directory under dir. The name
// is derived from the cleaned absolute project path so every spelling of the
// same directory maps to one lock.
func PathFor(dir, projectDir string) string {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		abs = projectDir
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(dir, hex.EncodeToString(sum[:8])+".lock")
}

// Acquire takes the lock at path without waiting. A lock held by another
// run returns an error wrapping ErrRunInProgress.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create lock directory")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //nolint:gosec // path is derived, not user input
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open lock file %s", path)
	}

	if err := Exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, errors.ErrRunInProgress)
	}

	// The pid is informational only; the kernel lock is what counts.
	_ = f.Truncate(0)
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())

	return &Lock{path: path, file: f}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and removes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	unlockErr := Unlock(f.Fd())
	_ = os.Remove(l.path)
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "failed to close lock file")
	}
	return errors.Wrap(unlockErr, "failed to release lock")
}
