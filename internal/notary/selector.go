package notary

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/liftoff/internal/credentials"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// Selection is the backend chosen for a run together with every probe that
// was performed to choose it.
type Selection struct {
	Backend Backend       `json:"backend"`
	Probes  []ProbeResult `json:"probes"`
}

// Selector picks the upload backend for a run.
type Selector struct {
	prober BackendProber
	logger zerolog.Logger
}

// NewSelector creates a Selector that probes through prober.
func NewSelector(prober BackendProber, logger zerolog.Logger) *Selector {
	return &Selector{prober: prober, logger: logger}
}

// Select probes backends according to mode. In auto mode the primary is
// probed first and the secondary only if the primary did not accept; each
// backend is probed at most once. When nothing accepts in auto mode, the
// error wraps ErrNoBackendAvailable and names every probe result. An explicit
// backend that does not accept fails with its own classification,
// ErrProbeRejected or ErrProbeUnreachable.
func (s *Selector) Select(ctx context.Context, mode Mode, creds credentials.Credentials) (*Selection, error) {
	candidates := Backends()
	if !mode.IsAuto() {
		candidates = []Backend{mode.Backend()}
	}

	sel := &Selection{}
	for _, backend := range candidates {
		if err := ctx.Err(); err != nil {
			return sel, err
		}

		result := s.prober.Probe(ctx, backend, creds)
		sel.Probes = append(sel.Probes, result)

		if result.Accepted() {
			sel.Backend = backend
			s.logger.Info().
				Str("backend", backend.String()).
				Str("mode", mode.String()).
				Str("purpose", string(backend.Purpose())).
				Msg("upload backend selected")
			return sel, nil
		}

		if !mode.IsAuto() {
			return sel, result.Err()
		}
	}

	summaries := make([]string, 0, len(sel.Probes))
	for _, p := range sel.Probes {
		summaries = append(summaries, p.String())
	}
	return sel, fmt.Errorf("%w: %s", lerrors.ErrNoBackendAvailable, strings.Join(summaries, "; "))
}
