package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/liftoff/internal/errors"
)

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitError)
	assert.Equal(t, 2, ExitInvalidInput)
}

func TestAddGlobalFlags_ParsesCorrectly(t *testing.T) {
	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	AddGlobalFlags(cmd, flags)

	cmd.SetArgs([]string{
		"-o", "json", "-v",
		"--config", "ci.yaml",
		"--env-file", "ci.env",
		"--backend", "notarytool",
		"--version", "1.4.0",
	})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "json", flags.Output)
	assert.True(t, flags.Verbose)
	assert.False(t, flags.Quiet)
	assert.Equal(t, "ci.yaml", flags.ConfigFile)
	assert.Equal(t, "ci.env", flags.EnvFile)
	assert.Equal(t, "notarytool", flags.Backend)
	assert.Equal(t, "1.4.0", flags.Version)
}

func TestAddGlobalFlags_VerboseQuietExclusive(t *testing.T) {
	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	AddGlobalFlags(cmd, flags)
	cmd.SetArgs([]string{"-v", "-q"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"explicit exit 2", errors.NewExitCode2Error(stderrors.New("bad input")), ExitInvalidInput},
		{"unknown operation", fmt.Errorf("%q: %w", "x", errors.ErrUnknownOperation), ExitInvalidInput},
		{"missing version", fmt.Errorf("deliver: %w", errors.ErrMissingParameter), ExitInvalidInput},
		{"malformed version", errors.ErrInvalidParameter, ExitInvalidInput},
		{"unknown backend", errors.ErrUnknownBackend, ExitInvalidInput},
		{"output format", errors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"cobra unknown flag", stderrors.New("unknown flag: --fast"), ExitInvalidInput},
		{"cobra too many args", stderrors.New("accepts at most 1 arg(s), received 2"), ExitInvalidInput},
		{"stage failure", fmt.Errorf("stage build: %w", errors.ErrStageFailed), ExitError},
		{"rejected submission", errors.ErrSubmissionInvalid, ExitError},
		{"no backend", errors.ErrNoBackendAvailable, ExitError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}
