package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/mrz1836/liftoff/internal/clock"
	"github.com/mrz1836/liftoff/internal/config"
	"github.com/mrz1836/liftoff/internal/credentials"
	"github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/notary"
	"github.com/mrz1836/liftoff/internal/pipeline"
	"github.com/mrz1836/liftoff/internal/publish"
	"github.com/mrz1836/liftoff/internal/shell"
	"github.com/mrz1836/liftoff/internal/toolchain"
	"github.com/mrz1836/liftoff/internal/tui"
)

// app holds what every command needs once flags are parsed. Credentials
// are read once here and passed explicitly to every component.
type app struct {
	flags *GlobalFlags
	opts  appOptions

	cfg    *config.Config
	creds  credentials.Credentials
	logger zerolog.Logger
	out    tui.Output
	runner shell.Runner
}

// appOptions replace external collaborators, mainly in tests.
type appOptions struct {
	runner    shell.Runner
	clock     clock.Clock
	publisher pipeline.ArtifactPublisher
	logWriter io.Writer
	lookuper  envconfig.Lookuper
	// interactive overrides terminal detection for the menu.
	interactive *bool
}

// appOption configures appOptions.
type appOption func(*appOptions)

func withRunner(r shell.Runner) appOption {
	return func(o *appOptions) { o.runner = r }
}

func withClock(c clock.Clock) appOption {
	return func(o *appOptions) { o.clock = c }
}

func withPublisher(p pipeline.ArtifactPublisher) appOption {
	return func(o *appOptions) { o.publisher = p }
}

func withLogWriter(w io.Writer) appOption {
	return func(o *appOptions) { o.logWriter = w }
}

func withLookuper(l envconfig.Lookuper) appOption {
	return func(o *appOptions) { o.lookuper = l }
}

func withInteractive(v bool) appOption {
	return func(o *appOptions) { o.interactive = &v }
}

func newApp(flags *GlobalFlags, opts ...appOption) *app {
	a := &app{flags: flags, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&a.opts)
	}
	return a
}

// prepare runs before every command: output format, logger, environment
// bootstrap, configuration and credentials, in that order.
func (a *app) prepare(cmd *cobra.Command) error {
	if err := tui.ValidateFormat(a.flags.Output); err != nil {
		return errors.NewExitCode2Error(err)
	}
	a.out = tui.NewOutput(cmd.OutOrStdout(), a.flags.Output)

	if a.opts.logWriter != nil {
		a.logger = InitLoggerWithWriter(a.flags.Verbose, a.flags.Quiet, a.opts.logWriter)
	} else {
		a.logger = InitLogger(a.flags.Verbose, a.flags.Quiet)
	}

	if err := loadEnvFile(a.flags.EnvFile); err != nil {
		return errors.NewExitCode2Error(err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx := a.logger.WithContext(parent)
	cmd.SetContext(ctx)

	backend := a.flags.Backend
	if backend != "" {
		if _, err := notary.ParseMode(backend); err != nil {
			return errors.NewExitCode2Error(err)
		}
	}
	cfg, err := config.LoadWithOverrides(ctx, a.flags.ConfigFile, &config.Config{
		Notary: config.NotaryConfig{Backend: backend},
	})
	if err != nil {
		return errors.NewExitCode2Error(err)
	}
	a.cfg = cfg

	lookuper := a.opts.lookuper
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	creds, err := credentials.Load(ctx, lookuper)
	if err != nil {
		return err
	}
	a.creds = creds

	a.runner = a.opts.runner
	if a.runner == nil {
		execRunner := shell.NewExecRunner(a.logger)
		if a.flags.Verbose {
			execRunner.SetLiveOutput(cmd.ErrOrStderr())
		}
		a.runner = execRunner
	}

	a.logger.Debug().
		Object("credentials", a.creds).
		Str("backend", a.cfg.Notary.Backend).
		Msg("environment ready")
	return nil
}

// loadEnvFile loads an explicit env file, or .env when present. Variables
// already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalid, "env file %s: %v", path, err)
	}
	return nil
}

func (a *app) clock() clock.Clock {
	if a.opts.clock != nil {
		return a.opts.clock
	}
	return clock.RealClock{}
}

func (a *app) isInteractive() bool {
	if a.opts.interactive != nil {
		return *a.opts.interactive
	}
	return tui.IsInteractive()
}

// project maps the configuration to the toolchain's view of the project.
func (a *app) project() toolchain.Project {
	p := a.cfg.Project
	return toolchain.Project{
		AppName:         p.ResolvedAppName(),
		Dir:             p.ResolvedDir(),
		ProjectPath:     p.Path,
		Scheme:          p.Scheme,
		DerivedDataPath: p.DerivedData,
		OutputDir:       a.cfg.Artifact.SearchRoot,
		SigningIdentity: p.SigningIdentity,
		Entitlements:    p.Entitlements,
		InstallDir:      p.InstallDir,
		Remote:          a.cfg.Git.Remote,
	}
}

// artifactRoot resolves the search root against the project directory.
func (a *app) artifactRoot() string {
	root := a.cfg.Artifact.SearchRoot
	if filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(a.cfg.Project.ResolvedDir(), root)
}

func (a *app) prober() *notary.Prober {
	return notary.NewProber(a.runner,
		notary.WithProberLogger(a.logger.With().Str("component", "prober").Logger()))
}

func (a *app) pollPolicy() notary.PollPolicy {
	n := a.cfg.Notary
	return notary.PollPolicy{
		Interval:    n.PollInterval,
		MaxInterval: n.MaxPollInterval,
		Multiplier:  n.PollMultiplier,
		Timeout:     n.Timeout,
	}
}

// reportProgress shows each poll. JSON output keeps stdout for the final
// document, so progress only goes to the log there.
func (a *app) reportProgress(rec notary.SubmissionRecord, elapsed time.Duration) {
	if a.out.IsJSON() {
		a.logger.Info().
			Str("backend", rec.Backend.String()).
			Str("submission_id", rec.ID).
			Str("status", string(rec.Status)).
			Int("polls", rec.Polls).
			Dur("elapsed", elapsed).
			Msg("submission progress")
		return
	}
	a.out.Info(fmt.Sprintf("%s %s: %s after %s (poll %d)",
		rec.Backend, rec.ID, rec.Status, elapsed.Round(time.Second), rec.Polls))
}

// deps assembles the stage collaborators for one run.
func (a *app) deps(ctx context.Context) (pipeline.Deps, error) {
	mode, err := notary.ParseMode(a.cfg.Notary.Backend)
	if err != nil {
		return pipeline.Deps{}, errors.NewExitCode2Error(err)
	}

	trackerLogger := a.logger.With().Str("component", "tracker").Logger()
	tracker := notary.NewTracker(a.runner, a.creds,
		notary.WithTrackerLogger(trackerLogger),
		notary.WithTrackerClock(a.clock()),
		notary.WithPollPolicy(a.pollPolicy()),
		notary.WithCommandTimeout(a.cfg.Timeouts.Tool),
		notary.WithBundleID(a.cfg.Notary.BundleID),
		notary.WithProgress(a.reportProgress),
	)

	deps := pipeline.Deps{
		Runner: a.runner,
		Toolchain: toolchain.New(a.runner, a.project(),
			toolchain.WithLogger(a.logger.With().Str("component", "toolchain").Logger()),
			toolchain.WithClock(a.clock()),
			toolchain.WithTimeouts(a.cfg.Timeouts.Build, a.cfg.Timeouts.Tool),
		),
		Credentials:     a.creds,
		Selector:        notary.NewSelector(a.prober(), a.logger),
		Tracker:         tracker,
		Mode:            mode,
		PackageFormat:   toolchain.PackageFormat(a.cfg.Artifact.Format),
		ArtifactRoot:    a.artifactRoot(),
		ArtifactPattern: a.cfg.Artifact.Pattern,
		Logger:          a.logger,
	}

	if a.cfg.Publish.Enabled {
		pub := a.opts.publisher
		if pub == nil {
			uploader, err := publish.New(ctx, publish.Options{
				Bucket:         a.cfg.Publish.Bucket,
				Prefix:         a.cfg.Publish.Prefix,
				Region:         a.cfg.Publish.Region,
				Endpoint:       a.cfg.Publish.Endpoint,
				ForcePathStyle: a.cfg.Publish.ForcePathStyle,
			}, a.logger.With().Str("component", "publish").Logger())
			if err != nil {
				return pipeline.Deps{}, err
			}
			pub = uploader
		}
		deps.Publisher = pub
	}

	return deps, nil
}
