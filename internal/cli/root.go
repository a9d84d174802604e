// Package cli provides the command-line interface for liftoff.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/liftoff/internal/dispatch"
	"github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// newRootCmd creates the root command. Without arguments on a terminal it
// shows the operation menu; otherwise the single argument is an operation
// name or menu number.
func newRootCmd(flags *GlobalFlags, info BuildInfo, opts ...appOption) *cobra.Command {
	a := newApp(flags, opts...)

	cmd := &cobra.Command{
		Use:   "liftoff [operation]",
		Short: "liftoff - build, sign, notarize and ship macOS apps",
		Long: `liftoff drives the Xcode toolchain through a fixed set of operations,
from a plain debug build to a signed, notarized and published release.

Operations (name or menu number):
  1  verify           Check that the build tools are installed
  2  debug-run        Build debug and launch
  3  debug-package    Build debug and package
  4  debug-install    Build debug, package and install
  5  release-run      Build release and launch
  6  release-package  Build release and package
  7  release-install  Build release, package and install
  8  deliver          Bump version, build, sign and notarize
  9  deliver-publish  Deliver after committing and pushing the version bump
  0  help             Show usage

Apple credentials are read from LIFTOFF_APPLE_ID, LIFTOFF_APPLE_PASSWORD and
LIFTOFF_TEAM_ID, optionally loaded from a .env file.

Examples:
  liftoff                           # interactive menu
  liftoff release-package
  liftoff 8 --version 1.4.0
  liftoff deliver --version 1.4.0 --backend notarytool -o json`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return a.runOperation(cmd, args[0])
			}
			if !a.isInteractive() {
				return cmd.Help()
			}
			choice, err := tui.ChooseOperation()
			if stderrors.Is(err, errors.ErrMenuCanceled) {
				a.out.Info(errors.UserMessage(err))
				return nil
			}
			if err != nil {
				return err
			}
			return a.runOperation(cmd, choice)
		},
		// Errors are printed by Execute through the selected output format.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	for _, op := range dispatch.Operations() {
		if op.Name == dispatch.OpHelp {
			continue
		}
		cmd.AddCommand(newOperationCmd(a, op))
	}
	cmd.AddCommand(newProbeCmd(a))
	cmd.AddCommand(newValidateArtifactCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd(info))

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// A returned error has already been printed; map it with ExitCodeForError.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	defer CloseLogFile()

	if err != nil {
		errorOutput(flags).Error(err)
	}
	return err
}

// errorOutput prints to stderr in the requested format, falling back to text
// when the format itself was the problem.
func errorOutput(flags *GlobalFlags) tui.Output {
	format := flags.Output
	if tui.ValidateFormat(format) != nil {
		format = tui.FormatText
	}
	return tui.NewOutput(os.Stderr, format)
}
