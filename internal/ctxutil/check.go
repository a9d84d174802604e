// Package ctxutil provides context helpers shared by long-running operations.
package ctxutil

import (
	"context"
	"time"
)

// Canceled returns the context error if ctx is done, nil otherwise.
// Used at the entry of every blocking operation.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// Wait blocks until ch fires or ctx is done, whichever comes first.
// It returns the context error when ctx ends the wait.
func Wait(ctx context.Context, ch <-chan time.Time) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
		return nil
	}
}
