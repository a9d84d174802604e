package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/testutil"
)

func TestRootCmd_Help(t *testing.T) {
	cmd, buf := newTestCmd(t, testutil.NewFakeRunner(), nil, "--help")

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, want := range []string{"liftoff", "--output", "--verbose", "--quiet", "--version", "--backend", "--env-file", "deliver-publish"} {
		assert.Contains(t, output, want)
	}
}

func TestRootCmd_MenuZeroShowsHelp(t *testing.T) {
	cmd, buf := newTestCmd(t, testutil.NewFakeRunner(), nil, "0")

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Operations (name or menu number)")
}

func TestRootCmd_NoArgsWithoutTerminalShowsHelp(t *testing.T) {
	runner := testutil.NewFakeRunner()
	cmd, buf := newTestCmd(t, runner, nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Usage:")
	assert.Empty(t, runner.Calls())
}

func TestRootCmd_UnknownOperation(t *testing.T) {
	runner := testutil.NewFakeRunner()
	cmd, _ := newTestCmd(t, runner, nil, "launch-rockets")

	err := cmd.Execute()
	require.ErrorIs(t, err, errors.ErrUnknownOperation)
	assert.Contains(t, err.Error(), "deliver-publish")
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	assert.Empty(t, runner.Calls())
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	cmd, _ := newTestCmd(t, testutil.NewFakeRunner(), nil, "verify", "deliver")

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	cmd, _ := newTestCmd(t, testutil.NewFakeRunner(), nil, "verify", "-o", "xml")

	err := cmd.Execute()
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_UnknownBackend(t *testing.T) {
	cmd, _ := newTestCmd(t, testutil.NewFakeRunner(), nil, "verify", "--backend", "transporter")

	err := cmd.Execute()
	require.ErrorIs(t, err, errors.ErrUnknownBackend)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestDeliver_VersionValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing", []string{"deliver"}, errors.ErrMissingParameter},
		{"missing by menu number", []string{"8"}, errors.ErrMissingParameter},
		{"malformed", []string{"deliver", "--version", "next"}, errors.ErrInvalidParameter},
		{"publish missing", []string{"deliver-publish"}, errors.ErrMissingParameter},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			runner := testutil.NewFakeRunner()
			cmd, _ := newTestCmd(t, runner, fullCredentials(), tc.args...)

			err := cmd.Execute()
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
			assert.Empty(t, runner.Calls(), "no stage may run before parameters are valid")
		})
	}
}

func TestVerify(t *testing.T) {
	t.Run("all tools installed", func(t *testing.T) {
		runner := testutil.NewFakeRunner().On("xcodebuild -version", testutil.Response{Stdout: "Xcode 16.0\nBuild version 16A242d"})
		cmd, buf := newTestCmd(t, runner, nil, "verify")

		require.NoError(t, cmd.Execute())

		output := buf.String()
		assert.Contains(t, output, "Check Tools")
		assert.Contains(t, output, "verify finished in")
	})

	t.Run("by menu number", func(t *testing.T) {
		runner := testutil.NewFakeRunner().On("xcodebuild -version", testutil.Response{Stdout: "Xcode 16.0"})
		cmd, buf := newTestCmd(t, runner, nil, "1")

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "verify finished in")
	})

	t.Run("missing required tool", func(t *testing.T) {
		runner := testutil.NewFakeRunner().Missing("agvtool").
			On("xcodebuild -version", testutil.Response{Stdout: "Xcode 16.0"})
		cmd, buf := newTestCmd(t, runner, nil, "verify")

		err := cmd.Execute()
		require.ErrorIs(t, err, errors.ErrToolNotFound)
		assert.Equal(t, ExitError, ExitCodeForError(err))
		assert.Contains(t, buf.String(), "✗")
	})
}

func TestVerify_JSONOutput(t *testing.T) {
	runner := testutil.NewFakeRunner().On("xcodebuild -version", testutil.Response{Stdout: "Xcode 16.0"})
	cmd, buf := newTestCmd(t, runner, nil, "verify", "-o", "json")

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"operation": "verify"`)
	assert.Contains(t, buf.String(), `"success": true`)
}

func TestVersionCmd(t *testing.T) {
	cmd, buf := newTestCmd(t, testutil.NewFakeRunner(), nil, "version")

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "liftoff 1.0.0 (commit: abc1234, built: 2026-01-01)")
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
	assert.Equal(t, "2.0.0-beta (commit: none, built: unknown)", formatVersion(BuildInfo{Version: "2.0.0-beta"}))
}

func TestExecute_PrintsErrorsInRequestedFormat(t *testing.T) {
	out := errorOutput(&GlobalFlags{Output: "json"})
	assert.True(t, out.IsJSON())

	out = errorOutput(&GlobalFlags{Output: "xml"})
	assert.False(t, out.IsJSON())
}

func TestRootCmd_ContextIsUsed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := testutil.NewFakeRunner().On("xcodebuild -version", testutil.Response{Stdout: "Xcode 16.0"})
	cmd, _ := newTestCmd(t, runner, nil, "verify")

	err := cmd.ExecuteContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ExitError, ExitCodeForError(err))
}

func TestRootCmd_HelpMentionsCredentials(t *testing.T) {
	cmd, buf := newTestCmd(t, testutil.NewFakeRunner(), nil, "--help")
	require.NoError(t, cmd.Execute())
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("LIFTOFF_APPLE_ID")))
}
