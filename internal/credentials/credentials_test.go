package credentials

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("primary variables", func(t *testing.T) {
		creds, err := Load(ctx, envconfig.MapLookuper(map[string]string{
			"LIFTOFF_APPLE_ID":       "dev@example.com",
			"LIFTOFF_APPLE_PASSWORD": "abcd-efgh-ijkl-mnop",
			"LIFTOFF_TEAM_ID":        "TEAM123456",
		}))
		require.NoError(t, err)
		assert.Equal(t, "dev@example.com", creds.AppleID())
		assert.Equal(t, "abcd-efgh-ijkl-mnop", creds.Password())
		assert.Equal(t, "TEAM123456", creds.TeamID())
	})

	t.Run("legacy variables fill gaps", func(t *testing.T) {
		creds, err := Load(ctx, envconfig.MapLookuper(map[string]string{
			"LIFTOFF_APPLE_ID":   "new@example.com",
			"APPLE_ID":           "old@example.com",
			"APPLE_APP_PASSWORD": "legacy-pass",
		}))
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", creds.AppleID())
		assert.Equal(t, "legacy-pass", creds.Password())
		assert.Empty(t, creds.TeamID())
	})

	t.Run("empty environment is not an error", func(t *testing.T) {
		creds, err := Load(ctx, envconfig.MapLookuper(nil))
		require.NoError(t, err)
		assert.False(t, creds.IsComplete(RequirementUpload))
	})
}

func TestCredentials_IsComplete(t *testing.T) {
	tests := []struct {
		name     string
		creds    Credentials
		upload   bool
		notarize bool
		missing  []string
	}{
		{"all fields", New("a@b.c", "pw", "TEAM"), true, true, nil},
		{"no team", New("a@b.c", "pw", ""), true, false, []string{FieldTeamID}},
		{"no password", New("a@b.c", "", "TEAM"), false, false, []string{FieldPassword}},
		{"whitespace only", New("  ", " ", " "), false, false, []string{FieldAppleID, FieldPassword, FieldTeamID}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.upload, tc.creds.IsComplete(RequirementUpload))
			assert.Equal(t, tc.notarize, tc.creds.IsComplete(RequirementNotarize))
			assert.Equal(t, tc.missing, tc.creds.Missing(RequirementNotarize))
		})
	}
}

func TestCredentials_Check(t *testing.T) {
	require.NoError(t, New("a@b.c", "pw", "TEAM").Check(RequirementNotarize))

	err := New("a@b.c", "", "").Check(RequirementNotarize)
	require.ErrorIs(t, err, lerrors.ErrCredentialsIncomplete)
	assert.Contains(t, err.Error(), "apple_password, team_id")
}

func TestCredentials_NeverExposePassword(t *testing.T) {
	creds := New("dev@example.com", "supersecretvalue", "TEAM")

	assert.NotContains(t, creds.String(), "supersecretvalue")
	assert.Contains(t, creds.String(), "dev@example.com")

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("credentials", creds).Msg("loaded")
	assert.NotContains(t, buf.String(), "supersecretvalue")
	assert.Contains(t, buf.String(), `"has_password":true`)
}
