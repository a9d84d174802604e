package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/tui"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a stage or tool failure.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = 2
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging and streams build output.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// ConfigFile replaces the project config file.
	ConfigFile string
	// EnvFile is loaded into the environment before credentials are read.
	EnvFile string
	// Backend forces an upload backend (auto, altool, notarytool).
	Backend string
	// Version is the release version for operations that bump it.
	Version string
}

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", tui.FormatText, "output format (text|json)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	pf.StringVar(&flags.ConfigFile, "config", "", "config file (default .liftoff/config.yaml)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "load environment variables from this file (default .env if present)")
	pf.StringVar(&flags.Backend, "backend", "", "upload backend: auto, altool or notarytool")
	pf.StringVar(&flags.Version, "version", "", "release version for deliver operations (e.g. 1.4.0)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// ExitCodeForError returns the exit code for err: 0 for nil, 2 for invalid
// input (unknown operation, missing or malformed parameters, bad flags) and
// 1 for everything else.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.IsExitCode2Error(err) {
		return ExitInvalidInput
	}

	for _, sentinel := range []error{
		errors.ErrInvalidOutputFormat,
		errors.ErrUnknownOperation,
		errors.ErrMissingParameter,
		errors.ErrInvalidParameter,
		errors.ErrUnknownBackend,
	} {
		if stderrors.Is(err, sentinel) {
			return ExitInvalidInput
		}
	}

	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitError
}

// isInvalidInputError catches Cobra's built-in flag validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts at most",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
