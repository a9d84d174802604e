package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/liftoff/internal/logging"
	"github.com/mrz1836/liftoff/internal/testutil"
)

func TestConfigShow_Text(t *testing.T) {
	cmd, buf := newTestCmd(t, testutil.NewFakeRunner(), fullCredentials(), "config", "show")

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "notary:")
	assert.Contains(t, output, "backend: auto")
	assert.Contains(t, output, "dev@example.com")
	assert.Contains(t, output, logging.RedactedValue)
	assert.NotContains(t, output, "abcd-efgh-ijkl-mnop")
	assert.Contains(t, output, "No config files found")
}

func TestConfigShow_JSON(t *testing.T) {
	cmd, buf := newTestCmd(t, testutil.NewFakeRunner(), nil, "config", "show", "-o", "json")

	require.NoError(t, cmd.Execute())

	var doc struct {
		Config struct {
			Notary struct {
				Backend      string `json:"backend"`
				PollInterval string `json:"poll_interval"`
			} `json:"notary"`
		} `json:"config"`
		Credentials credentialStatus `json:"credentials"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "auto", doc.Config.Notary.Backend)
	assert.NotEmpty(t, doc.Config.Notary.PollInterval)
	assert.False(t, doc.Credentials.NotarizeReady)
	assert.Empty(t, doc.Credentials.Password)
	assert.ElementsMatch(t, []string{"apple_id", "apple_password", "team_id"}, doc.Credentials.MissingForNotary)
}

func TestConfigShow_BackendFlagOverridesFile(t *testing.T) {
	runner := testutil.NewFakeRunner()
	cmd, buf := newTestCmd(t, runner, nil, "config", "show", "--backend", "notarytool")

	dir := ".liftoff"
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("notary:\n  backend: altool\n"), 0o600))

	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "backend: notarytool")
	assert.Contains(t, buf.String(), "Sources")
}

func TestConfigShow_InvalidConfigIsInputError(t *testing.T) {
	cmd, _ := newTestCmd(t, testutil.NewFakeRunner(), nil, "config", "show")

	require.NoError(t, os.MkdirAll(".liftoff", 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(".liftoff", "config.yaml"), []byte("artifact:\n  format: tarball\n"), 0o600))

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
