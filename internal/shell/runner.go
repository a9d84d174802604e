// Package shell runs the external developer tools that liftoff orchestrates
// (xcodebuild, xcrun, codesign, git, ...) and captures their output.
//
// Commands are executed directly, never through a shell, so arguments such
// as passwords are not subject to word splitting or expansion.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/logging"
)

// Command describes a single external tool invocation.
type Command struct {
	// Name is the executable name or path.
	Name string
	// Args are passed to the executable verbatim.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
	// Timeout bounds the invocation; zero means no limit beyond ctx.
	Timeout time.Duration
	// Stream copies output to the runner's live writer while capturing it.
	Stream bool
}

// String renders the command line with secrets redacted.
func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return logging.FilterSensitiveValue(strings.Join(parts, " "))
}

// Result captures the outcome of a completed invocation.
type Result struct {
	Command  string        `json:"command"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Combined returns stdout followed by stderr. Tools like altool write their
// status to stderr, so classifiers look at both.
func (r *Result) Combined() string {
	if r == nil {
		return ""
	}
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// Runner executes external commands.
type Runner interface {
	// LookPath reports the resolved path of an executable, or an error wrapping
	// ErrToolNotFound when it is not installed.
	LookPath(name string) (string, error)

	// Run executes cmd. A non-zero exit returns both the Result and an error
	// wrapping ErrCommandFailed; a missing executable returns ErrToolNotFound.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	logger     zerolog.Logger
	liveOutput io.Writer
}

// NewExecRunner creates a runner that logs each invocation at debug level.
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// SetLiveOutput streams the output of commands marked Stream to w.
func (r *ExecRunner) SetLiveOutput(w io.Writer) {
	r.liveOutput = w
}

// LookPath searches PATH for name.
func (r *ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, lerrors.ErrToolNotFound)
	}
	return path, nil
}

// Run executes cmd and captures stdout and stderr.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //#nosec G204 -- arguments are built internally from config
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	if cmd.Stream && r.liveOutput != nil {
		c.Stdout = io.MultiWriter(&stdout, r.liveOutput)
		c.Stderr = io.MultiWriter(&stderr, r.liveOutput)
	} else {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	r.logger.Debug().
		Str("command", cmd.String()).
		Str("dir", cmd.Dir).
		Msg("running command")

	start := time.Now()
	err := c.Run()
	result := &Result{
		Command:  cmd.String(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		result.ExitCode = -1
		return result, fmt.Errorf("%s: %w", cmd.Name, lerrors.ErrToolNotFound)
	}
	if ctx.Err() != nil {
		result.ExitCode = -1
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = 1
	}

	r.logger.Debug().
		Str("command", cmd.String()).
		Int("exit_code", result.ExitCode).
		Dur("duration", result.Duration).
		Msg("command failed")

	return result, fmt.Errorf("%s exited with code %d: %w", cmd.Name, result.ExitCode, lerrors.ErrCommandFailed)
}

var _ Runner = (*ExecRunner)(nil)
