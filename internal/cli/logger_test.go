package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/liftoff/internal/config"
	"github.com/mrz1836/liftoff/internal/constants"
)

func TestInitLogger_LogLevelPrecedence(t *testing.T) {
	tests := []struct {
		name          string
		verbose       bool
		quiet         bool
		expectedLevel zerolog.Level
	}{
		{"default is info level", false, false, zerolog.InfoLevel},
		{"verbose enables debug level", true, false, zerolog.DebugLevel},
		{"quiet enables warn level", false, true, zerolog.WarnLevel},
		{"verbose takes precedence over quiet", true, true, zerolog.DebugLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := InitLoggerWithWriter(tc.verbose, tc.quiet, &buf)
			assert.Equal(t, tc.expectedLevel, logger.GetLevel())
		})
	}
}

func TestInitLogger_FlagsSensitiveMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, false, &buf)

	logger.Info().Msg("running xcrun altool -p abcd-efgh-ijkl-mnop")

	assert.Contains(t, buf.String(), `"contains_filtered_data":true`)
}

func TestInitLogger_WritesRedactedLogFile(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	t.Cleanup(CloseLogFile)

	logger := InitLogger(false, true)
	logger.Warn().Str("args", "notarytool history --password abcd-efgh-ijkl-mnop").Msg("probe failed")
	CloseLogFile()

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, constants.CLILogFileName, filepath.Base(path))

	data := readFile(t, path)
	assert.Contains(t, data, "probe failed")
	assert.NotContains(t, data, "abcd-efgh-ijkl-mnop")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)
	return string(data)
}
