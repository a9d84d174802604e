package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/liftoff/internal/config"
	"github.com/mrz1836/liftoff/internal/dispatch"
	"github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/flock"
	"github.com/mrz1836/liftoff/internal/pipeline"
	"github.com/mrz1836/liftoff/internal/tui"
)

// newOperationCmd exposes op as a subcommand.
func newOperationCmd(a *app, op dispatch.Operation) *cobra.Command {
	use := op.Name
	if op.NeedsVersion {
		use += " --version <semver>"
	}
	return &cobra.Command{
		Use:     use,
		Aliases: []string{op.Menu},
		Short:   op.Description,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runOperation(cmd, op.Name)
		},
	}
}

// resolve maps input to a plan, prompting for a missing version when a
// terminal is attached.
func (a *app) resolve(input string) (dispatch.Plan, error) {
	plan, err := dispatch.Resolve(input, dispatch.Params{Version: a.flags.Version})
	if stderrors.Is(err, errors.ErrMissingParameter) && a.isInteractive() {
		version, perr := tui.PromptVersion()
		if perr != nil {
			return dispatch.Plan{}, perr
		}
		plan, err = dispatch.Resolve(input, dispatch.Params{Version: version})
	}
	if err != nil {
		return dispatch.Plan{}, errors.NewExitCode2Error(err)
	}
	return plan, nil
}

// runOperation resolves input and runs its stages, then renders the report.
// The report is rendered whether or not the run succeeded.
func (a *app) runOperation(cmd *cobra.Command, input string) error {
	plan, err := a.resolve(input)
	if err != nil {
		return err
	}
	if plan.IsHelp() {
		return cmd.Root().Help()
	}

	lock, err := a.lockProject()
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			a.logger.Warn().Err(releaseErr).Str("lock", lock.Path()).Msg("failed to release run lock")
		}
	}()

	ctx := cmd.Context()
	deps, err := a.deps(ctx)
	if err != nil {
		return err
	}

	stages, err := pipeline.NewFactory(deps).Build(plan.Operation.Stages, plan.StageOptions())
	if err != nil {
		return err
	}

	run := pipeline.NewRun(plan.Operation.Name, plan.Version, stages)
	p := pipeline.New(
		pipeline.WithLogger(a.logger),
		pipeline.WithClock(a.clock()),
		pipeline.WithStageHooks(a.stageStarted, nil),
	)

	execErr := p.Execute(ctx, run)
	if renderErr := tui.RenderRun(a.out, run); renderErr != nil && execErr == nil {
		return renderErr
	}
	return execErr
}

// lockProject keeps two runs from working on the same project at once.
func (a *app) lockProject() (*flock.Lock, error) {
	dir, err := config.LockDir()
	if err != nil {
		return nil, err
	}
	return flock.Acquire(flock.PathFor(dir, a.cfg.Project.ResolvedDir()))
}

func (a *app) stageStarted(run *pipeline.Run, name pipeline.StageName) {
	if a.out.IsJSON() || a.flags.Quiet {
		return
	}
	a.out.Info(fmt.Sprintf("▸ %s (%d/%d)", tui.StageTitle(name), run.Attempted()+1, len(run.Stages)))
}
