// Package clock abstracts time so the polling loop can be tested without
// real sleeps.
package clock

import "time"

// Clock is the subset of time operations used by liftoff.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// After returns a channel that receives once d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// After waits for d on the system clock.
func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

var _ Clock = RealClock{}
