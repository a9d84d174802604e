package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, Validate(nil), lerrors.ErrConfigNil)
}

func TestValidate_DefaultConfig(t *testing.T) {
	t.Parallel()
	require.NoError(t, Validate(DefaultConfig()))
}

func TestValidate_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  error
		wantText string
	}{
		{
			name:     "unknown backend",
			mutate:   func(c *Config) { c.Notary.Backend = "transporter" },
			wantErr:  lerrors.ErrConfigInvalidNotary,
			wantText: "notary.backend",
		},
		{
			name:     "poll interval too short",
			mutate:   func(c *Config) { c.Notary.PollInterval = 500 * time.Millisecond },
			wantErr:  lerrors.ErrConfigInvalidNotary,
			wantText: "notary.poll_interval",
		},
		{
			name:     "poll interval too long",
			mutate:   func(c *Config) { c.Notary.PollInterval = 11 * time.Minute },
			wantErr:  lerrors.ErrConfigInvalidNotary,
			wantText: "notary.poll_interval",
		},
		{
			name:     "max below interval",
			mutate:   func(c *Config) { c.Notary.MaxPollInterval = 10 * time.Second },
			wantErr:  lerrors.ErrConfigInvalidNotary,
			wantText: "notary.max_poll_interval",
		},
		{
			name:     "multiplier below one",
			mutate:   func(c *Config) { c.Notary.PollMultiplier = 0.5 },
			wantErr:  lerrors.ErrConfigInvalidNotary,
			wantText: "notary.poll_multiplier",
		},
		{
			name:     "zero timeout",
			mutate:   func(c *Config) { c.Notary.Timeout = 0 },
			wantErr:  lerrors.ErrConfigInvalidNotary,
			wantText: "notary.timeout",
		},
		{
			name:     "unknown format",
			mutate:   func(c *Config) { c.Artifact.Format = "tar" },
			wantErr:  lerrors.ErrConfigInvalid,
			wantText: "artifact.format",
		},
		{
			name:     "empty search root",
			mutate:   func(c *Config) { c.Artifact.SearchRoot = "" },
			wantErr:  lerrors.ErrConfigInvalid,
			wantText: "artifact.search_root",
		},
		{
			name:     "publish without bucket",
			mutate:   func(c *Config) { c.Publish.Enabled = true },
			wantErr:  lerrors.ErrConfigInvalid,
			wantText: "publish.bucket",
		},
		{
			name:     "bad endpoint",
			mutate:   func(c *Config) { c.Publish.Endpoint = "not a url" },
			wantErr:  lerrors.ErrConfigInvalid,
			wantText: "publish.endpoint",
		},
		{
			name:     "zero tool timeout",
			mutate:   func(c *Config) { c.Timeouts.Tool = 0 },
			wantErr:  lerrors.ErrConfigInvalid,
			wantText: "timeouts",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := Validate(cfg)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Contains(t, err.Error(), tc.wantText)
		})
	}
}

func TestValidate_PublishWithBucket(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Publish.Enabled = true
	cfg.Publish.Bucket = "rocket-builds"
	cfg.Publish.Endpoint = "http://localhost:9000"

	require.NoError(t, Validate(cfg))
}
