package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/liftoff/internal/artifact"
	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/credentials"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/notary"
	"github.com/mrz1836/liftoff/internal/publish"
	"github.com/mrz1836/liftoff/internal/shell"
	"github.com/mrz1836/liftoff/internal/toolchain"
)

// BackendSelector picks the upload backend.
type BackendSelector interface {
	Select(ctx context.Context, mode notary.Mode, creds credentials.Credentials) (*notary.Selection, error)
}

// SubmissionTracker submits an artifact and waits for the verdict.
type SubmissionTracker interface {
	Track(ctx context.Context, backend notary.Backend, artifactPath string) (*notary.SubmissionRecord, error)
}

// ArtifactPublisher uploads a delivered artifact.
type ArtifactPublisher interface {
	Upload(ctx context.Context, artifactPath, appName, version string) (*publish.Result, error)
}

// Deps are the collaborators stages call into.
type Deps struct {
	Runner      shell.Runner
	Toolchain   *toolchain.Toolchain
	Credentials credentials.Credentials
	Selector    BackendSelector
	Tracker     SubmissionTracker
	// Publisher is nil when artifact publishing is disabled.
	Publisher       ArtifactPublisher
	Mode            notary.Mode
	PackageFormat   toolchain.PackageFormat
	ArtifactRoot    string
	ArtifactPattern string
	Logger          zerolog.Logger
}

// StageOptions tailor stages to the operation.
type StageOptions struct {
	Configuration toolchain.Configuration
	// Delivery signs with the Developer ID identity when credentials allow.
	Delivery bool
}

// stage adapts a function to the Stage interface.
type stage struct {
	name     StageName
	requires []Param
	run      func(ctx context.Context, st *State) (StageOutput, error)
}

func (s stage) Name() StageName { return s.name }

func (s stage) Requires() []Param { return s.requires }

func (s stage) Run(ctx context.Context, st *State) (StageOutput, error) { return s.run(ctx, st) }

// Factory builds stages from names.
type Factory struct {
	deps Deps
}

// NewFactory creates a Factory.
func NewFactory(deps Deps) *Factory {
	return &Factory{deps: deps}
}

// Build returns the stages for names, in the same order.
func (f *Factory) Build(names []StageName, opts StageOptions) ([]Stage, error) {
	stages := make([]Stage, 0, len(names))
	for _, name := range names {
		s, err := f.stage(name, opts)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

func (f *Factory) stage(name StageName, opts StageOptions) (Stage, error) {
	switch name {
	case StageCheckTools:
		return stage{name: name, run: f.checkTools}, nil
	case StagePreflight:
		return stage{name: name, run: f.preflight}, nil
	case StageBumpVersion:
		return stage{name: name, requires: []Param{ParamVersion}, run: f.bumpVersion}, nil
	case StageCommitPush:
		return stage{name: name, requires: []Param{ParamVersion}, run: f.commitPush}, nil
	case StageBuild:
		return stage{name: name, run: func(ctx context.Context, st *State) (StageOutput, error) {
			return f.build(ctx, st, opts.Configuration)
		}}, nil
	case StageLaunch:
		return stage{name: name, run: f.launch}, nil
	case StagePackage:
		return stage{name: name, run: func(ctx context.Context, st *State) (StageOutput, error) {
			return f.pack(ctx, st, opts.Delivery)
		}}, nil
	case StageInstall:
		return stage{name: name, run: f.install}, nil
	case StageNotarize:
		return stage{name: name, run: f.notarize}, nil
	case StagePublishArtifact:
		return stage{name: name, requires: []Param{ParamVersion}, run: f.publishArtifact}, nil
	case StageCleanup:
		return stage{name: name, run: f.cleanup}, nil
	}
	return nil, fmt.Errorf("stage %q: %w", name, lerrors.ErrUnknownOperation)
}

func (f *Factory) checkTools(ctx context.Context, _ *State) (StageOutput, error) {
	report, err := toolchain.DetectTools(ctx, f.deps.Runner)
	if err != nil {
		return StageOutput{}, err
	}

	if missing := report.MissingRequired(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, tool := range missing {
			names = append(names, fmt.Sprintf("%s (%s)", tool.Name, tool.Status))
		}
		return StageOutput{}, fmt.Errorf("%s: %w", strings.Join(names, ", "), lerrors.ErrToolNotFound)
	}

	return StageOutput{Message: fmt.Sprintf("%d tools checked", len(report.Tools))}, nil
}

// canSubmit reports whether the credentials allow any submission at all.
func (f *Factory) canSubmit() bool {
	return f.deps.Credentials.IsComplete(credentials.RequirementUpload)
}

// preflight only advises. Missing credentials or identities downgrade the
// run to ad-hoc signing without submission instead of failing it.
func (f *Factory) preflight(ctx context.Context, st *State) (StageOutput, error) {
	creds := f.deps.Credentials

	if missing := creds.Missing(credentials.RequirementNotarize); len(missing) > 0 {
		if f.canSubmit() {
			st.Advise("credentials missing %s: only backends that do not need them can be used", strings.Join(missing, ", "))
		} else {
			st.Advise("credentials missing %s: the package will be ad-hoc signed and not submitted", strings.Join(missing, ", "))
		}
	}

	identity := f.deps.Toolchain.Project().SigningIdentity
	if identity == "" {
		st.Advise("no signing identity configured: the package will be ad-hoc signed")
	} else if found, err := f.deps.Toolchain.HasSigningIdentity(ctx, identity); err != nil {
		if ctx.Err() != nil {
			return StageOutput{}, ctx.Err()
		}
		st.Advise("could not check signing identity: %v", err)
	} else if !found {
		st.Advise("signing identity %q not found in keychain", identity)
	}

	for _, a := range st.Advisories {
		f.deps.Logger.Warn().Str("advisory", a).Msg("preflight")
	}

	if len(st.Advisories) == 0 {
		return StageOutput{Message: "ready to deliver"}, nil
	}
	return StageOutput{Message: fmt.Sprintf("%d advisories", len(st.Advisories))}, nil
}

func (f *Factory) bumpVersion(ctx context.Context, st *State) (StageOutput, error) {
	if err := f.deps.Toolchain.BumpVersion(ctx, st.Version); err != nil {
		return StageOutput{}, err
	}
	return StageOutput{Message: "version " + st.Version}, nil
}

func (f *Factory) commitPush(ctx context.Context, st *State) (StageOutput, error) {
	if err := f.deps.Toolchain.CommitAndPush(ctx, st.Version); err != nil {
		return StageOutput{}, err
	}
	return StageOutput{Message: "pushed " + toolchain.ReleaseTag(st.Version)}, nil
}

func (f *Factory) build(ctx context.Context, st *State, cfg toolchain.Configuration) (StageOutput, error) {
	app, err := f.deps.Toolchain.Build(ctx, cfg)
	if err != nil {
		return StageOutput{}, err
	}
	st.AppPath = app
	return StageOutput{Message: string(cfg) + " build", ArtifactPath: app}, nil
}

func (f *Factory) launch(ctx context.Context, st *State) (StageOutput, error) {
	if st.AppPath == "" {
		return StageOutput{}, lerrors.Wrap(lerrors.ErrArtifactNotFound, "nothing built to launch")
	}
	if err := f.deps.Toolchain.Launch(ctx, st.AppPath); err != nil {
		return StageOutput{}, err
	}
	return StageOutput{Message: "launched"}, nil
}

// pack signs the built bundle, packages it and validates the result.
// Delivery runs sign with the Developer ID identity only when the
// credentials allow submission; everything else is ad-hoc signed.
func (f *Factory) pack(ctx context.Context, st *State, delivery bool) (StageOutput, error) {
	if st.AppPath == "" {
		return StageOutput{}, lerrors.Wrap(lerrors.ErrArtifactNotFound, "nothing built to package")
	}

	tc := f.deps.Toolchain
	identity := toolchain.AdHocIdentity
	if delivery && f.canSubmit() && tc.Project().SigningIdentity != "" {
		identity = tc.Project().SigningIdentity
	}
	if err := tc.Sign(ctx, st.AppPath, identity); err != nil {
		return StageOutput{}, err
	}

	out, err := tc.Package(ctx, st.AppPath, st.Version, f.deps.PackageFormat)
	if err != nil {
		return StageOutput{}, err
	}

	art, err := artifact.Validate(out, tc.Project().AppName)
	if err != nil {
		return StageOutput{}, err
	}
	for _, w := range art.Warnings {
		st.Advise("artifact %s: %s", out, w)
	}
	st.ArtifactPath = out
	st.Artifact = art

	msg := "signed"
	if identity == toolchain.AdHocIdentity {
		msg = "ad-hoc signed"
	}
	return StageOutput{Message: msg + " " + string(art.Format), ArtifactPath: out}, nil
}

func (f *Factory) install(ctx context.Context, st *State) (StageOutput, error) {
	if st.AppPath == "" {
		return StageOutput{}, lerrors.Wrap(lerrors.ErrArtifactNotFound, "nothing built to install")
	}
	dest, err := f.deps.Toolchain.Install(ctx, st.AppPath)
	if err != nil {
		return StageOutput{}, err
	}
	return StageOutput{Message: "installed", ArtifactPath: dest}, nil
}

// notarize selects a backend and tracks the submission. With incomplete
// credentials it is skipped with an advisory, matching preflight.
func (f *Factory) notarize(ctx context.Context, st *State) (StageOutput, error) {
	if !f.canSubmit() {
		st.Advise("submission skipped: credentials incomplete")
		return StageOutput{Message: "skipped, credentials incomplete", Skipped: true}, nil
	}

	path, art, err := f.resolveArtifact(st)
	if err != nil {
		return StageOutput{}, err
	}

	sel, err := f.deps.Selector.Select(ctx, f.deps.Mode, f.deps.Credentials)
	st.Selection = sel
	if err != nil {
		return StageOutput{}, err
	}

	rec, err := f.deps.Tracker.Track(ctx, sel.Backend, path)
	st.Submission = rec
	if err != nil {
		if rec != nil && rec.Log != nil {
			f.deps.Logger.Error().Str("log", rec.Log.Summary()).Msg("submission rejected")
		}
		return StageOutput{}, err
	}

	if art.Format == artifact.FormatDMG {
		if err := f.deps.Toolchain.Staple(ctx, path); err != nil {
			return StageOutput{}, err
		}
	}

	return StageOutput{
		Message:      fmt.Sprintf("%s accepted %s after %d polls", sel.Backend, rec.ID, rec.Polls),
		ArtifactPath: path,
	}, nil
}

// resolveArtifact prefers the artifact packaged in this run and falls back
// to the newest one on disk.
func (f *Factory) resolveArtifact(st *State) (string, *artifact.Artifact, error) {
	path := st.ArtifactPath
	if path == "" {
		found, err := artifact.Locate(f.deps.ArtifactRoot, f.deps.ArtifactPattern)
		if err != nil {
			return "", nil, err
		}
		path = found
	}

	art := st.Artifact
	if art == nil || art.Path != path {
		validated, err := artifact.Validate(path, f.deps.Toolchain.Project().AppName)
		if err != nil {
			return "", nil, err
		}
		art = validated
		st.Artifact = art
	}
	return path, art, nil
}

func (f *Factory) publishArtifact(ctx context.Context, st *State) (StageOutput, error) {
	if f.deps.Publisher == nil {
		return StageOutput{Message: "publishing disabled", Skipped: true}, nil
	}
	if st.Submission == nil || st.Submission.Status != constants.SubmissionStatusAccepted {
		st.Advise("artifact not published: it was not accepted by a review service")
		return StageOutput{Message: "skipped, not accepted", Skipped: true}, nil
	}

	res, err := f.deps.Publisher.Upload(ctx, st.ArtifactPath, f.deps.Toolchain.Project().AppName, st.Version)
	if err != nil {
		return StageOutput{}, err
	}
	st.Published = res
	return StageOutput{Message: res.URI, ArtifactPath: st.ArtifactPath}, nil
}

func (f *Factory) cleanup(_ context.Context, st *State) (StageOutput, error) {
	n := st.runCleanups()
	return StageOutput{Message: fmt.Sprintf("%d temporary items removed", n)}, nil
}
