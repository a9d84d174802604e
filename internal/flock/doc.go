// Package flock serializes liftoff runs on one project with an advisory,
// non-blocking file lock. Two concurrent deliveries would race on the
// version bump and the packaged artifact, so the second one fails fast.
//
// Usage:
//
//	lock, err := flock.Acquire(path)
//	if err != nil {
//	    // another run holds the lock
//	}
//	defer lock.Release()
package flock
