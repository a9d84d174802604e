package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/ctxutil"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// RetryConfig bounds retries of transient push failures.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig retries a push three times starting at two seconds.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

//nolint:gochecknoglobals // Immutable pattern list
var transientPushPatterns = []string{
	"could not resolve host",
	"connection refused",
	"connection timed out",
	"operation timed out",
	"network is unreachable",
	"unable to access",
	"failed to connect",
	"the remote end hung up unexpectedly",
}

// isTransientPushError reports whether a push failure is worth retrying.
func isTransientPushError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, p := range transientPushPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// ReleaseTag returns the git tag for version.
func ReleaseTag(version string) string {
	return "v" + strings.TrimPrefix(version, "v")
}

// CommitAndPush commits every change in the project, tags the release and
// pushes both. Network failures during push are retried.
func (t *Toolchain) CommitAndPush(ctx context.Context, version string) error {
	if version == "" {
		return lerrors.Wrap(lerrors.ErrMissingParameter, "version")
	}
	if err := t.requireTool(constants.ToolGit); err != nil {
		return err
	}

	tag := ReleaseTag(version)
	steps := [][]string{
		{"add", "--all"},
		{"commit", "--message", "Release " + tag},
		{"tag", "--annotate", tag, "--message", "Release " + tag},
	}
	for _, args := range steps {
		if _, err := t.run(ctx, t.toolTimeout, constants.ToolGit, args...); err != nil {
			return lerrors.Wrapf(err, "git %s failed", args[0])
		}
	}

	return t.push(ctx, tag)
}

func (t *Toolchain) push(ctx context.Context, tag string) error {
	remote := t.project.Remote
	if remote == "" {
		remote = "origin"
	}

	cfg := t.pushRetry
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		_, err := t.run(ctx, t.toolTimeout, constants.ToolGit, "push", "--follow-tags", remote, "HEAD")
		if err == nil {
			t.logger.Info().
				Str("remote", remote).
				Str("tag", tag).
				Int("attempts", attempt).
				Msg("push succeeded")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
		if !isTransientPushError(err) || attempt == cfg.MaxAttempts {
			break
		}

		t.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("push failed, retrying")

		if err := ctxutil.Wait(ctx, t.clock.After(delay)); err != nil {
			return err
		}
		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}

	return fmt.Errorf("git push to %s failed: %w", remote, lastErr)
}
