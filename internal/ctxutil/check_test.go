package ctxutil_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/liftoff/internal/ctxutil"
)

func TestCanceled(t *testing.T) {
	t.Run("active context", func(t *testing.T) {
		require.NoError(t, ctxutil.Canceled(context.Background()))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, ctxutil.Canceled(ctx), context.Canceled)
	})
}

func TestWait(t *testing.T) {
	t.Run("returns when channel fires", func(t *testing.T) {
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		require.NoError(t, ctxutil.Wait(context.Background(), ch))
	})

	t.Run("returns context error first", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := ctxutil.Wait(ctx, make(chan time.Time))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
