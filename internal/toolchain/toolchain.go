// Package toolchain wraps the Xcode command line tools, git and friends as
// opaque release steps. Each step runs one or more external commands through
// a shell.Runner and reports success, failure and any produced path.
package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/liftoff/internal/clock"
	"github.com/mrz1836/liftoff/internal/constants"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/shell"
)

// Configuration is an Xcode build configuration.
type Configuration string

const (
	ConfigurationDebug   Configuration = "Debug"
	ConfigurationRelease Configuration = "Release"
)

// Project describes the application being released.
type Project struct {
	// AppName is the bundle name without the .app suffix.
	AppName string
	// Dir is the project root; commands run here.
	Dir string
	// ProjectPath is the .xcodeproj or .xcworkspace, relative to Dir.
	ProjectPath string
	// Scheme is the Xcode scheme to build.
	Scheme string
	// DerivedDataPath is where xcodebuild writes products, relative to Dir.
	DerivedDataPath string
	// OutputDir is where packaged artifacts are written, relative to Dir.
	OutputDir string
	// SigningIdentity is the Developer ID identity used for release signing.
	SigningIdentity string
	// Entitlements is an optional entitlements plist.
	Entitlements string
	// InstallDir is where install copies the application bundle.
	InstallDir string
	// Remote is the git remote pushed by the commit-push stage.
	Remote string
}

// abs resolves p against the project directory.
func (p Project) abs(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Dir, rel)
}

// BundleName returns AppName with the .app suffix.
func (p Project) BundleName() string {
	return strings.TrimSuffix(p.AppName, ".app") + ".app"
}

// ProductPath returns the built bundle location for cfg.
func (p Project) ProductPath(cfg Configuration) string {
	return filepath.Join(p.abs(p.DerivedDataPath), "Build", "Products", string(cfg), p.BundleName())
}

// Toolchain runs release steps for one project.
type Toolchain struct {
	runner       shell.Runner
	project      Project
	logger       zerolog.Logger
	clock        clock.Clock
	buildTimeout time.Duration
	toolTimeout  time.Duration
	pushRetry    RetryConfig
}

// Option configures a Toolchain.
type Option func(*Toolchain)

// WithLogger sets the logger for step events.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Toolchain) { t.logger = logger }
}

// WithClock replaces the clock used between push retries.
func WithClock(c clock.Clock) Option {
	return func(t *Toolchain) { t.clock = c }
}

// WithTimeouts bounds build invocations and every other tool invocation.
func WithTimeouts(build, tool time.Duration) Option {
	return func(t *Toolchain) {
		if build > 0 {
			t.buildTimeout = build
		}
		if tool > 0 {
			t.toolTimeout = tool
		}
	}
}

// WithPushRetry sets the retry policy for git push.
func WithPushRetry(cfg RetryConfig) Option {
	return func(t *Toolchain) { t.pushRetry = cfg }
}

// New creates a Toolchain for project.
func New(runner shell.Runner, project Project, opts ...Option) *Toolchain {
	t := &Toolchain{
		runner:       runner,
		project:      project,
		logger:       zerolog.Nop(),
		clock:        clock.RealClock{},
		buildTimeout: constants.DefaultBuildTimeout,
		toolTimeout:  constants.DefaultToolTimeout,
		pushRetry:    DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Project returns the project the toolchain operates on.
func (t *Toolchain) Project() Project {
	return t.project
}

// run executes name with args in the project directory.
func (t *Toolchain) run(ctx context.Context, timeout time.Duration, name string, args ...string) (*shell.Result, error) {
	res, err := t.runner.Run(ctx, shell.Command{
		Name:    name,
		Args:    args,
		Dir:     t.project.Dir,
		Timeout: timeout,
		Stream:  name == constants.ToolXcodebuild,
	})
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, fmt.Errorf("%s: %w%s", name, err, tail(res))
	}
	return res, nil
}

// tail returns the last lines of a failed command's output for error messages.
func tail(res *shell.Result) string {
	out := strings.TrimSpace(res.Combined())
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return "\n" + strings.Join(lines, "\n")
}

// requireTool fails with ErrToolNotFound when name is not installed.
func (t *Toolchain) requireTool(name string) error {
	if _, err := t.runner.LookPath(name); err != nil {
		return fmt.Errorf("%s is required: %w", name, lerrors.ErrToolNotFound)
	}
	return nil
}
