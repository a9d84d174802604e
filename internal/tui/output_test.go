package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

func TestTTYOutput(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("packaged")
	out.Warning("ad-hoc signed")
	out.Info("polling")
	out.Error(fmt.Errorf("deliver: %w", lerrors.ErrNoBackendAvailable))

	text := buf.String()
	assert.Contains(t, text, "✓ packaged")
	assert.Contains(t, text, "⚠ ad-hoc signed")
	assert.Contains(t, text, "polling")
	assert.Contains(t, text, "✗ deliver: no upload backend available")
	assert.Contains(t, text, "▸ Try: Run 'liftoff probe'")
	assert.False(t, out.IsJSON())
}

func TestTTYOutput_ErrorWithoutAction(t *testing.T) {
	var buf bytes.Buffer
	NewTTYOutput(&buf).Error(lerrors.ErrMenuCanceled)
	assert.NotContains(t, buf.String(), "Try:")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Error(lerrors.ErrSubmissionTimeout)

	var msg map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "submission polling timeout", msg["message"])
	assert.Contains(t, msg["action"], "notary.timeout")
	assert.True(t, out.IsJSON())
}

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, FormatJSON))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, FormatText))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, ""))
}

func TestValidateFormat(t *testing.T) {
	require.NoError(t, ValidateFormat("text"))
	require.NoError(t, ValidateFormat("json"))
	require.ErrorIs(t, ValidateFormat("yaml"), lerrors.ErrInvalidOutputFormat)
}

func TestHasColorSupport(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Run("no color set", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, HasColorSupport())
	})
	t.Run("dumb terminal", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, HasColorSupport())
	})
}
