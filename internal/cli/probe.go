package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/notary"
	"github.com/mrz1836/liftoff/internal/tui"
)

// newProbeCmd reports which upload backends accept the credentials without
// submitting anything.
func newProbeCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check which upload backends accept the Apple credentials",
		Long: `Probe the upload backends with the configured Apple credentials.

By default backends are probed in selection order and probing stops at the
first one that accepts, exactly as a delivery would. --all probes every
backend regardless. --backend limits probing to one backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runProbe(cmd, all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "probe every backend instead of stopping at the first accepted")
	return cmd
}

func (a *app) runProbe(cmd *cobra.Command, all bool) error {
	ctx := cmd.Context()
	mode, err := notary.ParseMode(a.cfg.Notary.Backend)
	if err != nil {
		return errors.NewExitCode2Error(err)
	}

	if !all || !mode.IsAuto() {
		sel, selErr := notary.NewSelector(a.prober(), a.logger).Select(ctx, mode, a.creds)
		if renderErr := tui.RenderProbes(a.out, sel.Probes); renderErr != nil {
			return renderErr
		}
		return selErr
	}

	prober := a.prober()
	probes := make([]notary.ProbeResult, 0, len(notary.Backends()))
	accepted := false
	for _, backend := range notary.Backends() {
		result := prober.Probe(ctx, backend, a.creds)
		accepted = accepted || result.Accepted()
		probes = append(probes, result)
	}
	if err := tui.RenderProbes(a.out, probes); err != nil {
		return err
	}
	if !accepted {
		return errors.ErrNoBackendAvailable
	}
	return nil
}
