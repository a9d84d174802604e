// Package pipeline executes a release operation as an ordered list of
// stages. Execution is strictly sequential and stops at the first failed
// stage; later stages are never attempted.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/liftoff/internal/artifact"
	"github.com/mrz1836/liftoff/internal/clock"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/notary"
	"github.com/mrz1836/liftoff/internal/publish"
)

// StageName identifies a stage.
type StageName string

// Stage names, in the order they appear in the longest operation.
const (
	StageCheckTools      StageName = "check-tools"
	StagePreflight       StageName = "preflight"
	StageBumpVersion     StageName = "bump-version"
	StageCommitPush      StageName = "commit-push"
	StageBuild           StageName = "build"
	StageLaunch          StageName = "launch"
	StagePackage         StageName = "package"
	StageInstall         StageName = "install"
	StageNotarize        StageName = "notarize"
	StagePublishArtifact StageName = "publish-artifact"
	StageCleanup         StageName = "cleanup"
)

// Param names a run parameter a stage may require.
type Param string

// ParamVersion is the release version string.
const ParamVersion Param = "version"

// StageOutput is what a stage reports back on success.
type StageOutput struct {
	Message      string
	ArtifactPath string
	Skipped      bool
}

// Stage is one independently failable step.
type Stage interface {
	Name() StageName
	// Requires lists parameters that must be set before any stage runs.
	Requires() []Param
	Run(ctx context.Context, st *State) (StageOutput, error)
}

// State is shared by the stages of one run.
type State struct {
	Version      string
	AppPath      string
	ArtifactPath string
	Artifact     *artifact.Artifact
	Selection    *notary.Selection
	Submission   *notary.SubmissionRecord
	Published    *publish.Result
	Advisories   []string

	cleanups []func()
}

// Advise records a non-fatal finding for the run report.
func (s *State) Advise(format string, args ...any) {
	s.Advisories = append(s.Advisories, fmt.Sprintf(format, args...))
}

// OnCleanup registers fn to run once the run ends, whatever the outcome.
func (s *State) OnCleanup(fn func()) {
	s.cleanups = append(s.cleanups, fn)
}

// runCleanups runs and forgets registered cleanups, newest first.
func (s *State) runCleanups() int {
	n := len(s.cleanups)
	for i := n - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil
	return n
}

// StageResult records one attempted stage.
type StageResult struct {
	Stage        StageName     `json:"stage"`
	Success      bool          `json:"success"`
	Skipped      bool          `json:"skipped,omitempty"`
	Message      string        `json:"message,omitempty"`
	ArtifactPath string        `json:"artifact_path,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// Outcome summarizes a finished run.
type Outcome struct {
	Success     bool      `json:"success"`
	FailedStage StageName `json:"failed_stage,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Err         error     `json:"-"`
}

// Run is one execution of an operation.
type Run struct {
	ID         string        `json:"id"`
	Operation  string        `json:"operation"`
	Version    string        `json:"version,omitempty"`
	Stages     []StageName   `json:"stages"`
	Results    []StageResult `json:"results"`
	Outcome    Outcome       `json:"outcome"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	State      *State        `json:"-"`

	stages []Stage
}

// NewRun prepares a run of stages for operation.
func NewRun(operation, version string, stages []Stage) *Run {
	names := make([]StageName, 0, len(stages))
	for _, s := range stages {
		names = append(names, s.Name())
	}
	return &Run{
		ID:        uuid.NewString(),
		Operation: operation,
		Version:   version,
		Stages:    names,
		State:     &State{Version: version},
		stages:    stages,
	}
}

// Attempted returns the number of stages that were started.
func (r *Run) Attempted() int {
	return len(r.Results)
}

// Pipeline executes runs.
type Pipeline struct {
	logger  zerolog.Logger
	clock   clock.Clock
	onStart func(run *Run, stage StageName)
	onDone  func(run *Run, result StageResult)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for stage events.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithClock replaces the clock used for timestamps and durations.
func WithClock(c clock.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithStageHooks registers callbacks around each attempted stage.
func WithStageHooks(onStart func(*Run, StageName), onDone func(*Run, StageResult)) Option {
	return func(p *Pipeline) {
		p.onStart = onStart
		p.onDone = onDone
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: zerolog.Nop(),
		clock:  clock.RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute runs every stage of run in order and records the outcome on run.
// It returns nil only when every stage succeeded. Parameters are checked for
// all stages before the first one starts.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	run.StartedAt = p.clock.Now()
	defer func() {
		if n := run.State.runCleanups(); n > 0 {
			p.logger.Debug().Int("count", n).Msg("removed temporary files")
		}
		run.FinishedAt = p.clock.Now()
	}()

	logger := p.logger.With().
		Str("run_id", run.ID).
		Str("operation", run.Operation).
		Logger()

	if stage, err := p.checkParams(run); err != nil {
		return p.finish(run, logger, stage, err)
	}

	logger.Info().
		Strs("stages", stageStrings(run.Stages)).
		Msg("run started")

	for _, stage := range run.stages {
		if err := ctx.Err(); err != nil {
			return p.finish(run, logger, stage.Name(), err)
		}

		if p.onStart != nil {
			p.onStart(run, stage.Name())
		}

		start := p.clock.Now()
		out, err := stage.Run(ctx, run.State)
		result := StageResult{
			Stage:        stage.Name(),
			Success:      err == nil,
			Skipped:      out.Skipped,
			Message:      out.Message,
			ArtifactPath: out.ArtifactPath,
			Duration:     p.clock.Now().Sub(start),
		}
		if err != nil {
			result.Message = lerrors.UserMessage(err)
		}
		run.Results = append(run.Results, result)

		if p.onDone != nil {
			p.onDone(run, result)
		}

		if err != nil {
			return p.finish(run, logger, stage.Name(), err)
		}

		logger.Info().
			Str("stage", string(stage.Name())).
			Bool("skipped", out.Skipped).
			Dur("duration", result.Duration).
			Msg("stage finished")
	}

	run.Outcome = Outcome{Success: true}
	logger.Info().
		Int("advisories", len(run.State.Advisories)).
		Msg("run succeeded")
	return nil
}

func (p *Pipeline) checkParams(run *Run) (StageName, error) {
	for _, stage := range run.stages {
		for _, param := range stage.Requires() {
			if param == ParamVersion && strings.TrimSpace(run.Version) == "" {
				return stage.Name(), fmt.Errorf("%s stage needs --%s: %w", stage.Name(), param, lerrors.ErrMissingParameter)
			}
		}
	}
	return "", nil
}

func (p *Pipeline) finish(run *Run, logger zerolog.Logger, stage StageName, err error) error {
	wrapped := fmt.Errorf("stage %s: %w: %w", stage, lerrors.ErrStageFailed, err)
	run.Outcome = Outcome{
		FailedStage: stage,
		Reason:      err.Error(),
		Err:         wrapped,
	}
	logger.Error().
		Err(err).
		Str("stage", string(stage)).
		Int("attempted", run.Attempted()).
		Msg("run failed")
	return wrapped
}

func stageStrings(names []StageName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
