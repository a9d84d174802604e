package notary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/credentials"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/shell"
)

// ProbeOutcome is the classification of a single probe.
type ProbeOutcome string

const (
	ProbeAccepted    ProbeOutcome = "accepted"
	ProbeRejected    ProbeOutcome = "rejected"
	ProbeUnreachable ProbeOutcome = "unreachable"
)

// ProbeResult records what a backend said about a credential set.
type ProbeResult struct {
	Backend Backend      `json:"backend"`
	Outcome ProbeOutcome `json:"outcome"`
	Detail  string       `json:"detail,omitempty"`
}

// Accepted reports whether the backend accepted the credentials.
func (r ProbeResult) Accepted() bool { return r.Outcome == ProbeAccepted }

// Err returns nil for an accepted probe, otherwise an error wrapping
// ErrProbeRejected or ErrProbeUnreachable.
func (r ProbeResult) Err() error {
	switch r.Outcome {
	case ProbeAccepted:
		return nil
	case ProbeRejected:
		return fmt.Errorf("%s: %w", r, lerrors.ErrProbeRejected)
	default:
		return fmt.Errorf("%s: %w", r, lerrors.ErrProbeUnreachable)
	}
}

func (r ProbeResult) String() string {
	if r.Detail == "" {
		return fmt.Sprintf("%s %s", r.Backend, r.Outcome)
	}
	return fmt.Sprintf("%s %s (%s)", r.Backend, r.Outcome, r.Detail)
}

// BackendProber checks whether a backend accepts a credential set.
type BackendProber interface {
	Probe(ctx context.Context, backend Backend, creds credentials.Credentials) ProbeResult
}

// Prober runs each backend's identity check. Probes never upload anything.
type Prober struct {
	runner     shell.Runner
	classifier *Classifier
	logger     zerolog.Logger
	timeout    time.Duration
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProberLogger sets the logger for probe events.
func WithProberLogger(logger zerolog.Logger) ProberOption {
	return func(p *Prober) { p.logger = logger }
}

// WithProberClassifier replaces the output classifier.
func WithProberClassifier(c *Classifier) ProberOption {
	return func(p *Prober) { p.classifier = c }
}

// WithProbeTimeout bounds each probe invocation.
func WithProbeTimeout(d time.Duration) ProberOption {
	return func(p *Prober) { p.timeout = d }
}

// NewProber creates a Prober that runs tools through runner.
func NewProber(runner shell.Runner, opts ...ProberOption) *Prober {
	p := &Prober{
		runner:     runner,
		classifier: NewClassifier(),
		logger:     zerolog.Nop(),
		timeout:    constants.DefaultToolTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe classifies backend's response to creds.
func (p *Prober) Probe(ctx context.Context, backend Backend, creds credentials.Credentials) ProbeResult {
	result := p.probe(ctx, backend, creds)

	p.logger.Info().
		Str("backend", backend.String()).
		Str("outcome", string(result.Outcome)).
		Str("detail", result.Detail).
		Msg("backend probe finished")

	return result
}

func (p *Prober) probe(ctx context.Context, backend Backend, creds credentials.Credentials) ProbeResult {
	result := ProbeResult{Backend: backend}

	if missing := creds.Missing(backend.Requirement()); len(missing) > 0 {
		result.Outcome = ProbeRejected
		result.Detail = "missing " + strings.Join(missing, ", ")
		return result
	}

	if _, err := p.runner.LookPath(constants.ToolXcrun); err != nil {
		result.Outcome = ProbeUnreachable
		result.Detail = "xcrun not installed"
		return result
	}

	cmd := adapterFor(backend).probeCommand(creds)
	cmd.Timeout = p.timeout

	res, err := p.runner.Run(ctx, cmd)
	output := res.Combined()

	switch kind := p.classifier.ClassifyFailure(output); {
	case err != nil && errors.Is(err, lerrors.ErrToolNotFound):
		result.Outcome = ProbeUnreachable
		result.Detail = backend.String() + " not installed"
	case err != nil && ctx.Err() != nil:
		result.Outcome = ProbeUnreachable
		result.Detail = ctx.Err().Error()
	case kind == FailureAuth:
		result.Outcome = ProbeRejected
		result.Detail = "credentials refused"
	case kind == FailureNetwork:
		result.Outcome = ProbeUnreachable
		result.Detail = "service unreachable"
	case err != nil:
		// A failure we cannot attribute never counts as acceptance.
		result.Outcome = ProbeUnreachable
		result.Detail = firstLine(output, err)
	default:
		result.Outcome = ProbeAccepted
	}

	return result
}

func firstLine(output string, err error) string {
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return err.Error()
}

var _ BackendProber = (*Prober)(nil)
