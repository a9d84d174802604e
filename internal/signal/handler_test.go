package signal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_TriggerCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	assert.False(t, h.WasInterrupted())

	h.trigger()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
	assert.True(t, h.WasInterrupted())
	require.ErrorIs(t, h.Context().Err(), context.Canceled)
}

func TestHandler_StopIsIdempotent(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()
	h.Stop()

	require.Error(t, h.Context().Err())
	assert.False(t, h.WasInterrupted())
}
