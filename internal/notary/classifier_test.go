package notary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/liftoff/internal/constants"
)

func readSample(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name)) //nolint:gosec // fixed test fixture path
	require.NoError(t, err)
	return string(data)
}

// Contract tests against recorded tool output. When a tool changes its
// wording, record the new output here and bump PatternSetVersion.
func TestClassifier_FailureSamples(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		sample string
		want   FailureKind
	}{
		{"altool/list-providers-ok.txt", FailureUnknown},
		{"altool/list-providers-auth.txt", FailureAuth},
		{"altool/list-providers-offline.txt", FailureNetwork},
		{"notarytool/history-ok.txt", FailureUnknown},
		{"notarytool/history-auth.txt", FailureAuth},
		{"notarytool/history-offline.txt", FailureNetwork},
	}

	for _, tc := range tests {
		t.Run(tc.sample, func(t *testing.T) {
			assert.Equal(t, tc.want, c.ClassifyFailure(readSample(t, tc.sample)))
		})
	}
}

func TestClassifier_StatusSamples(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		sample string
		want   constants.SubmissionStatus
		known  bool
	}{
		{"altool/info-in-progress.txt", constants.SubmissionStatusInProgress, true},
		{"altool/info-success.txt", constants.SubmissionStatusAccepted, true},
		{"altool/info-invalid.txt", constants.SubmissionStatusInvalid, true},
		{"notarytool/info-in-progress.txt", constants.SubmissionStatusInProgress, true},
		{"notarytool/info-accepted.txt", constants.SubmissionStatusAccepted, true},
		{"notarytool/info-invalid.txt", constants.SubmissionStatusInvalid, true},
		{"notarytool/info-unrecognized.txt", constants.SubmissionStatusInProgress, false},
	}

	for _, tc := range tests {
		t.Run(tc.sample, func(t *testing.T) {
			out := readSample(t, tc.sample)
			assert.Equal(t, tc.want, c.ClassifyStatus(out))
			assert.Equal(t, tc.known, c.IsKnownStatus(out))
		})
	}
}

func TestClassifier_FailsSafe(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name   string
		output string
		want   constants.SubmissionStatus
	}{
		{"empty output", "", constants.SubmissionStatusInProgress},
		{"garbage", "¯\\_(ツ)_/¯", constants.SubmissionStatusInProgress},
		{"status message alone is not a status", "Status Message: something new", constants.SubmissionStatusInProgress},
		{"rejection beats acceptance", "status: accepted\nstatus: invalid", constants.SubmissionStatusInvalid},
		{"rejected wording", "  status: Rejected", constants.SubmissionStatusInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.ClassifyStatus(tc.output))
		})
	}
}

func TestClassifier_SubmissionID(t *testing.T) {
	c := NewClassifier()

	t.Run("altool", func(t *testing.T) {
		id, ok := c.SubmissionID(readSample(t, "altool/notarize-app.txt"))
		require.True(t, ok)
		assert.Equal(t, "2ef2d7a0-5e0a-4e1b-9bd2-3f1c6a7a9e10", id)
	})

	t.Run("notarytool", func(t *testing.T) {
		id, ok := c.SubmissionID(readSample(t, "notarytool/submit.txt"))
		require.True(t, ok)
		assert.Equal(t, "7b1c0c8e-3f2a-4d6b-9a51-0c7e2f4b8d13", id)
	})

	t.Run("json", func(t *testing.T) {
		id, ok := c.SubmissionID(`{"id":"7B1C0C8E-3F2A-4D6B-9A51-0C7E2F4B8D13","message":"Successfully uploaded file"}`)
		require.True(t, ok)
		assert.Equal(t, "7b1c0c8e-3f2a-4d6b-9a51-0c7e2f4b8d13", id)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := c.SubmissionID("Error: upload failed")
		assert.False(t, ok)
	})
}

func TestClassifier_LogURL(t *testing.T) {
	c := NewClassifier()

	url, ok := c.LogURL(readSample(t, "altool/info-invalid.txt"))
	require.True(t, ok)
	assert.Equal(t, "https://osxapps-ssl.itunes.apple.com/itunes-assets/Enigma/v4/2ef2d7a0/developer_log.json", url)

	_, ok = c.LogURL(readSample(t, "altool/info-in-progress.txt"))
	assert.False(t, ok)

	assert.Equal(t, PatternSetVersion, c.Version())
}
