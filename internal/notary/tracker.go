package notary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/liftoff/internal/clock"
	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/credentials"
	"github.com/mrz1836/liftoff/internal/ctxutil"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/logging"
	"github.com/mrz1836/liftoff/internal/shell"
)

// maxDiagnosticLines bounds the tool output carried in a submission error.
const maxDiagnosticLines = 10

// PollPolicy bounds how the tracker waits for a terminal status.
type PollPolicy struct {
	// Interval is the first wait between status queries.
	Interval time.Duration
	// MaxInterval caps the wait when Multiplier grows it.
	MaxInterval time.Duration
	// Multiplier scales the wait after every in-progress answer. 1 keeps it fixed.
	Multiplier float64
	// Timeout bounds the whole wait, measured from the successful upload.
	Timeout time.Duration
}

// DefaultPollPolicy polls every 30 seconds for up to two hours.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:    constants.DefaultPollInterval,
		MaxInterval: constants.DefaultMaxPollInterval,
		Multiplier:  constants.DefaultPollMultiplier,
		Timeout:     constants.DefaultNotaryTimeout,
	}
}

// withDefaults fills unset fields from DefaultPollPolicy.
func (p PollPolicy) withDefaults() PollPolicy {
	def := DefaultPollPolicy()
	if p.Interval <= 0 {
		p.Interval = def.Interval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = def.MaxInterval
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = p.Interval
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	return p
}

// next returns the wait that follows cur.
func (p PollPolicy) next(cur time.Duration) time.Duration {
	n := time.Duration(float64(cur) * p.Multiplier)
	if n > p.MaxInterval {
		return p.MaxInterval
	}
	return n
}

// ProgressFunc receives the record after every status query.
type ProgressFunc func(rec SubmissionRecord, elapsed time.Duration)

// Tracker uploads an artifact and polls the backend until the submission
// reaches a terminal status.
type Tracker struct {
	runner         shell.Runner
	creds          credentials.Credentials
	classifier     *Classifier
	clock          clock.Clock
	logger         zerolog.Logger
	policy         PollPolicy
	commandTimeout time.Duration
	bundleID       string
	progress       ProgressFunc
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerLogger sets the logger for submission events.
func WithTrackerLogger(logger zerolog.Logger) TrackerOption {
	return func(t *Tracker) { t.logger = logger }
}

// WithTrackerClock replaces the clock used for waits and the timeout.
func WithTrackerClock(c clock.Clock) TrackerOption {
	return func(t *Tracker) { t.clock = c }
}

// WithTrackerClassifier replaces the output classifier.
func WithTrackerClassifier(c *Classifier) TrackerOption {
	return func(t *Tracker) { t.classifier = c }
}

// WithPollPolicy sets the polling bounds. Zero fields keep their defaults.
func WithPollPolicy(p PollPolicy) TrackerOption {
	return func(t *Tracker) { t.policy = p.withDefaults() }
}

// WithCommandTimeout bounds each tool invocation.
func WithCommandTimeout(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.commandTimeout = d }
}

// WithBundleID sets the primary bundle identifier sent with altool uploads.
func WithBundleID(id string) TrackerOption {
	return func(t *Tracker) { t.bundleID = id }
}

// WithProgress registers a callback invoked after every status query.
func WithProgress(fn ProgressFunc) TrackerOption {
	return func(t *Tracker) { t.progress = fn }
}

// NewTracker creates a Tracker submitting with creds through runner.
func NewTracker(runner shell.Runner, creds credentials.Credentials, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		runner:         runner,
		creds:          creds,
		classifier:     NewClassifier(),
		clock:          clock.RealClock{},
		logger:         zerolog.Nop(),
		policy:         DefaultPollPolicy(),
		commandTimeout: constants.DefaultToolTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track submits artifactPath to backend and waits for the outcome.
//
// The returned record is never nil. The error is nil only for an accepted
// submission; otherwise it wraps ErrCredentialsIncomplete,
// ErrSubmissionFailed, ErrSubmissionInvalid, ErrSubmissionTimeout or the
// context error.
func (t *Tracker) Track(ctx context.Context, backend Backend, artifactPath string) (*SubmissionRecord, error) {
	rec := &SubmissionRecord{
		Backend:      backend,
		ArtifactPath: artifactPath,
		Status:       constants.SubmissionStatusSubmitted,
	}

	if err := ctxutil.Canceled(ctx); err != nil {
		return rec, err
	}

	// Submission is where missing credentials become fatal.
	if err := t.creds.Check(backend.Requirement()); err != nil {
		rec.transition(constants.SubmissionStatusError, t.clock.Now())
		return rec, lerrors.Wrapf(err, "cannot submit to %s", backend)
	}

	if err := t.submit(ctx, backend, rec); err != nil {
		return rec, err
	}

	return rec, t.poll(ctx, backend, rec)
}

func (t *Tracker) submit(ctx context.Context, backend Backend, rec *SubmissionRecord) error {
	cmd := adapterFor(backend).submitCommand(t.creds, SubmitRequest{
		ArtifactPath: rec.ArtifactPath,
		BundleID:     t.bundleID,
	})
	cmd.Timeout = t.commandTimeout

	t.logger.Info().
		Str("backend", backend.String()).
		Str("artifact", rec.ArtifactPath).
		Msg("submitting artifact")

	res, err := t.runner.Run(ctx, cmd)
	rec.SubmittedAt = t.clock.Now()
	output := res.Combined()

	if err != nil {
		return t.fail(ctx, rec, output, fmt.Errorf("%s upload: %w: %w", backend, lerrors.ErrSubmissionFailed, err))
	}

	id, ok := t.classifier.SubmissionID(output)
	if !ok {
		return t.fail(ctx, rec, output, fmt.Errorf("%s returned no submission identifier: %w", backend, lerrors.ErrSubmissionFailed))
	}
	rec.ID = id

	t.logger.Info().
		Str("backend", backend.String()).
		Str("submission_id", id).
		Msg("artifact submitted")

	return nil
}

func (t *Tracker) poll(ctx context.Context, backend Backend, rec *SubmissionRecord) error {
	a := adapterFor(backend)
	deadline := rec.SubmittedAt.Add(t.policy.Timeout)
	interval := t.policy.Interval

	for {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}

		remaining := deadline.Sub(t.clock.Now())
		if remaining <= 0 {
			rec.transition(constants.SubmissionStatusTimeout, t.clock.Now())
			t.logger.Warn().
				Str("submission_id", rec.ID).
				Int("polls", rec.Polls).
				Dur("timeout", t.policy.Timeout).
				Msg("submission polling timed out")
			return fmt.Errorf("%s after %s and %d polls: %w", rec.ID, t.policy.Timeout, rec.Polls, lerrors.ErrSubmissionTimeout)
		}

		if err := ctxutil.Wait(ctx, t.clock.After(min(interval, remaining))); err != nil {
			return err
		}

		cmd := a.statusCommand(t.creds, rec.ID)
		cmd.Timeout = t.commandTimeout
		res, err := t.runner.Run(ctx, cmd)
		rec.Polls++
		output := res.Combined()

		if err != nil {
			return t.fail(ctx, rec, output, fmt.Errorf("%s status query: %w: %w", backend, lerrors.ErrSubmissionFailed, err))
		}

		status := t.classifier.ClassifyStatus(output)
		if status == constants.SubmissionStatusInProgress && !t.classifier.IsKnownStatus(output) {
			t.logger.Warn().
				Str("submission_id", rec.ID).
				Str("pattern_set", t.classifier.Version()).
				Msg("unrecognized status output, treating as in progress")
		}
		rec.transition(status, t.clock.Now())

		t.logger.Debug().
			Str("submission_id", rec.ID).
			Str("status", status.String()).
			Int("poll", rec.Polls).
			Msg("submission status")

		if t.progress != nil {
			t.progress(*rec, t.clock.Now().Sub(rec.SubmittedAt))
		}

		switch status {
		case constants.SubmissionStatusAccepted:
			t.logger.Info().
				Str("submission_id", rec.ID).
				Int("polls", rec.Polls).
				Msg("submission accepted")
			return nil
		case constants.SubmissionStatusInvalid:
			t.fetchLog(ctx, a, rec, output)
			return fmt.Errorf("%s %s: %w", backend, rec.ID, lerrors.ErrSubmissionInvalid)
		}

		interval = t.policy.next(interval)
	}
}

// fetchLog retrieves the diagnostic log once. A failed fetch keeps the
// status output as diagnostics rather than masking the rejection.
func (t *Tracker) fetchLog(ctx context.Context, a adapter, rec *SubmissionRecord, statusOutput string) {
	rec.Diagnostics = statusOutput

	cmd, ok := a.logCommand(t.creds, rec.ID, statusOutput, t.classifier)
	if !ok {
		return
	}
	cmd.Timeout = t.commandTimeout

	res, err := t.runner.Run(ctx, cmd)
	if err != nil {
		t.logger.Warn().Err(err).Str("submission_id", rec.ID).Msg("failed to fetch submission log")
		return
	}

	rec.Diagnostics = res.Stdout
	if parsed, parseErr := ParseLog([]byte(res.Stdout)); parseErr == nil {
		rec.Log = parsed
	}
}

// fail moves rec to Error, except that cancellation is reported as is. The
// tail of the tool output is appended to err.
func (t *Tracker) fail(ctx context.Context, rec *SubmissionRecord, output string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	rec.Diagnostics = output
	rec.transition(constants.SubmissionStatusError, t.clock.Now())
	if tail := DiagnosticTail(output); tail != "" {
		err = fmt.Errorf("%w\n%s", err, tail)
	}
	t.logger.Error().Err(err).Str("submission_id", rec.ID).Msg("submission failed")
	return err
}

// DiagnosticTail returns the last lines of tool output with secrets redacted.
func DiagnosticTail(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return ""
	}
	lines := strings.Split(output, "\n")
	if len(lines) > maxDiagnosticLines {
		lines = lines[len(lines)-maxDiagnosticLines:]
	}
	return logging.FilterSensitiveValue(strings.Join(lines, "\n"))
}
