// Package errors provides centralized error handling for liftoff.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
var (
	// ErrMissingParameter indicates that an operation or stage required a
	// parameter (such as the version string) that was not provided.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidParameter indicates that a provided parameter was malformed.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrToolNotFound indicates that a required external tool is not installed
	// or not on PATH.
	ErrToolNotFound = errors.New("required tool not found")

	// ErrArtifactNotFound indicates that no artifact exists at the expected location.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrCorruptArchive indicates that an artifact could not be opened or listed
	// as a zip-compatible archive.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrCredentialsIncomplete indicates that credential fields required for an
	// operation are missing. Advisory outside the submission stage.
	ErrCredentialsIncomplete = errors.New("credentials incomplete")

	// ErrProbeRejected indicates that a backend was reachable but refused the credentials.
	ErrProbeRejected = errors.New("backend rejected credentials")

	// ErrProbeUnreachable indicates that a backend tool or its service could not be reached.
	ErrProbeUnreachable = errors.New("backend unreachable")

	// ErrNoBackendAvailable indicates that no upload backend accepted the credentials.
	ErrNoBackendAvailable = errors.New("no upload backend available")

	// ErrUnknownBackend indicates that an unrecognized backend name was requested.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrSubmissionFailed indicates that the submission tool failed before a
	// tracking identifier was obtained, or a later status query failed outright.
	ErrSubmissionFailed = errors.New("submission failed")

	// ErrSubmissionInvalid indicates that the review service rejected the submission.
	ErrSubmissionInvalid = errors.New("submission rejected by service")

	// ErrSubmissionTimeout indicates that the submission did not reach a terminal
	// state within the configured maximum wait.
	ErrSubmissionTimeout = errors.New("submission polling timeout")

	// ErrUnknownOperation indicates that the requested operation is not recognized.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrRunInProgress indicates that another liftoff run holds the project lock.
	ErrRunInProgress = errors.New("another run is in progress")

	// ErrStageFailed indicates that a pipeline stage reported failure.
	ErrStageFailed = errors.New("pipeline stage failed")

	// ErrCommandFailed indicates that an external command exited non-zero.
	ErrCommandFailed = errors.New("command failed")

	// ErrCommandNotConfigured indicates that a fake command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrPublishFailed indicates that uploading the artifact to object storage failed.
	ErrPublishFailed = errors.New("artifact publish failed")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigInvalidNotary indicates an invalid notarization configuration value.
	ErrConfigInvalidNotary = errors.New("invalid notary configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrMenuCanceled indicates that the user canceled the interactive menu.
	ErrMenuCanceled = errors.New("menu canceled by user")

	// ErrInteractiveRequired indicates that interactive prompts are required but not available.
	ErrInteractiveRequired = errors.New("interactive prompt required")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
