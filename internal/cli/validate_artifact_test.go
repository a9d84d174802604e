package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/testutil"
)

func writeZip(t *testing.T, path string, entries ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	f, err := os.Create(path) //nolint:gosec // test path
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestValidateArtifact_ExplicitPath(t *testing.T) {
	cmd, buf := newTestCmd(t, testutil.NewFakeRunner(), nil, "validate-artifact", "Rocket.zip")
	writeZip(t, "Rocket.zip", "Payload/Rocket.app/Contents/Info.plist")

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Rocket.zip (zip,")
}

func TestValidateArtifact_LocatesNewest(t *testing.T) {
	cmd, buf := newTestCmd(t, testutil.NewFakeRunner(), nil, "validate-artifact", "-o", "json")
	writeZip(t, filepath.Join("build", "dist", "Other.zip"), "Payload/Other.app/Contents/Info.plist")

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Other.zip")
	assert.Contains(t, output, `"valid": true`)
	assert.Contains(t, output, "warnings")
}

func TestValidateArtifact_Errors(t *testing.T) {
	t.Run("nothing packaged", func(t *testing.T) {
		cmd, _ := newTestCmd(t, testutil.NewFakeRunner(), nil, "validate-artifact")

		err := cmd.Execute()
		require.ErrorIs(t, err, errors.ErrArtifactNotFound)
		assert.Equal(t, ExitError, ExitCodeForError(err))
	})

	t.Run("not a zip", func(t *testing.T) {
		cmd, _ := newTestCmd(t, testutil.NewFakeRunner(), nil, "validate-artifact", "broken.zip")
		require.NoError(t, os.WriteFile("broken.zip", []byte("definitely not a zip"), 0o600))

		err := cmd.Execute()
		require.ErrorIs(t, err, errors.ErrCorruptArchive)
	})
}
