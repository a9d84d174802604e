package cli

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/mrz1836/liftoff/internal/clock"
	"github.com/mrz1836/liftoff/internal/config"
	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/testutil"
)

// fullCredentials is a complete credential environment.
func fullCredentials() map[string]string {
	return map[string]string{
		constants.EnvAppleID:       "dev@example.com",
		constants.EnvApplePassword: "abcd-efgh-ijkl-mnop",
		constants.EnvTeamID:        "TEAM123456",
	}
}

// newTestCmd builds a root command isolated from the real home directory,
// working directory, environment and terminal.
func newTestCmd(t *testing.T, runner *testutil.FakeRunner, env map[string]string, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	return newTestCmdWith(t, runner, env, nil, args...)
}

// newTestCmdWith is newTestCmd with extra app options.
func newTestCmdWith(t *testing.T, runner *testutil.FakeRunner, env map[string]string, extra []appOption, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.HomeEnv, t.TempDir())
	t.Chdir(t.TempDir())

	if env == nil {
		env = map[string]string{}
	}

	opts := []appOption{
		withRunner(runner),
		withClock(clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))),
		withLogWriter(io.Discard),
		withLookuper(envconfig.MapLookuper(env)),
		withInteractive(false),
	}
	opts = append(opts, extra...)

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-01-01"}, opts...)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return cmd, buf
}
