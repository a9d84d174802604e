package notary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/liftoff/internal/credentials"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

func TestBackends_PriorityOrder(t *testing.T) {
	assert.Equal(t, []Backend{BackendAltool, BackendNotarytool}, Backends())
	assert.Equal(t, PurposeStoreSubmission, BackendAltool.Purpose())
	assert.Equal(t, PurposeNotarization, BackendNotarytool.Purpose())
	assert.Equal(t, credentials.RequirementUpload, BackendAltool.Requirement())
	assert.Equal(t, credentials.RequirementNotarize, BackendNotarytool.Requirement())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		auto    bool
		backend Backend
		wantErr bool
	}{
		{"", true, "", false},
		{"auto", true, "", false},
		{"AUTO", true, "", false},
		{"altool", false, BackendAltool, false},
		{" Notarytool ", false, BackendNotarytool, false},
		{"transporter", false, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			m, err := ParseMode(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, lerrors.ErrUnknownBackend)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.auto, m.IsAuto())
			assert.Equal(t, tc.backend, m.Backend())
		})
	}
}

func TestAdapters_CommandShapes(t *testing.T) {
	creds := credentials.New("dev@example.com", "abcd-efgh-ijkl-mnop", "TEAM123456")

	probe := adapterFor(BackendAltool).probeCommand(creds)
	assert.Equal(t, "xcrun", probe.Name)
	assert.Equal(t, []string{"altool", "--list-providers", "-u", "dev@example.com", "-p", "abcd-efgh-ijkl-mnop", "--asc-provider", "TEAM123456"}, probe.Args)
	assert.NotContains(t, probe.String(), "abcd-efgh-ijkl-mnop")

	submit := adapterFor(BackendNotarytool).submitCommand(creds, SubmitRequest{ArtifactPath: "/tmp/Rocket.zip"})
	assert.Equal(t, []string{
		"notarytool", "submit", "/tmp/Rocket.zip",
		"--apple-id", "dev@example.com", "--password", "abcd-efgh-ijkl-mnop", "--team-id", "TEAM123456",
	}, submit.Args)
	assert.NotContains(t, submit.String(), "abcd-efgh-ijkl-mnop")

	_, ok := adapterFor(BackendAltool).logCommand(creds, "id", "Status: invalid", NewClassifier())
	assert.False(t, ok, "altool without a LogFileURL has nothing to fetch")
}
