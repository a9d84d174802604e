package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice rather than a map so lookups can walk wrapped chains with errors.Is.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	// ===================
	// Input
	// ===================
	{
		err: ErrMissingParameter,
		info: ErrorInfo{
			Message: "A required parameter was not provided.",
			Action:  "Pass the version with --version (e.g. 'liftoff deliver --version 1.4.0').",
		},
	},
	{
		err: ErrInvalidParameter,
		info: ErrorInfo{
			Message: "A parameter value is malformed.",
			Action:  "Use a semantic version such as 1.4.0 or 2.0.0-beta.1.",
		},
	},
	{
		err: ErrUnknownOperation,
		info: ErrorInfo{
			Message: "The requested operation is not recognized.",
			Action:  "Run 'liftoff --help' to list the available operations.",
		},
	},

	// ===================
	// Environment
	// ===================
	{
		err: ErrToolNotFound,
		info: ErrorInfo{
			Message: "A required build tool is not installed.",
			Action:  "Install Xcode and its command line tools ('xcode-select --install'), then run 'liftoff verify'.",
		},
	},
	{
		err: ErrCredentialsIncomplete,
		info: ErrorInfo{
			Message: "Apple credentials are incomplete.",
			Action:  "Set LIFTOFF_APPLE_ID, LIFTOFF_APPLE_PASSWORD and LIFTOFF_TEAM_ID (or pass --env-file).",
		},
	},

	// ===================
	// Artifacts
	// ===================
	{
		err: ErrArtifactNotFound,
		info: ErrorInfo{
			Message: "No packaged artifact was found.",
			Action:  "Run 'liftoff release-package' to produce one, or check artifact.search_root in config.",
		},
	},
	{
		err: ErrCorruptArchive,
		info: ErrorInfo{
			Message: "The artifact is not a readable zip archive.",
			Action:  "Delete the artifact and re-run the package stage.",
		},
	},

	// ===================
	// Backends & submission
	// ===================
	{
		err: ErrProbeRejected,
		info: ErrorInfo{
			Message: "The backend rejected your Apple credentials.",
			Action:  "Regenerate the app-specific password at appleid.apple.com and update LIFTOFF_APPLE_PASSWORD.",
		},
	},
	{
		err: ErrProbeUnreachable,
		info: ErrorInfo{
			Message: "The backend tool or service could not be reached.",
			Action:  "Check your network connection and that 'xcrun' works, or choose another --backend.",
		},
	},
	{
		err: ErrNoBackendAvailable,
		info: ErrorInfo{
			Message: "No upload backend accepted the credentials.",
			Action:  "Run 'liftoff probe' to see each backend's result and fix the reported problem.",
		},
	},
	{
		err: ErrUnknownBackend,
		info: ErrorInfo{
			Message: "The requested backend does not exist.",
			Action:  "Use --backend auto, altool or notarytool.",
		},
	},
	{
		err: ErrSubmissionFailed,
		info: ErrorInfo{
			Message: "The submission tool failed before the upload could be tracked.",
			Action:  "Review the tool output above; re-run once the problem is fixed.",
		},
	},
	{
		err: ErrSubmissionInvalid,
		info: ErrorInfo{
			Message: "Apple rejected the submission.",
			Action:  "Review the diagnostic log above, fix the reported issues, and deliver again.",
		},
	},
	{
		err: ErrSubmissionTimeout,
		info: ErrorInfo{
			Message: "The submission did not finish within the configured wait.",
			Action:  "Check the submission status later or increase notary.timeout.",
		},
	},
	{
		err: ErrPublishFailed,
		info: ErrorInfo{
			Message: "Uploading the artifact to object storage failed.",
			Action:  "Check AWS credentials and publish.bucket in config.",
		},
	},

	// ===================
	// Pipeline & config
	// ===================
	{
		err: ErrStageFailed,
		info: ErrorInfo{
			Message: "A pipeline stage failed.",
			Action:  "Review the stage output above.",
		},
	},
	{
		err: ErrRunInProgress,
		info: ErrorInfo{
			Message: "Another liftoff run is already working on this project.",
			Action:  "Wait for it to finish; the lock is released when that process exits.",
		},
	},
	{
		err: ErrConfigInvalid,
		info: ErrorInfo{
			Message: "The configuration is invalid.",
			Action:  "Run 'liftoff config show' and fix the reported field.",
		},
	},
	{
		err: ErrConfigInvalidNotary,
		info: ErrorInfo{
			Message: "The notarization configuration is invalid.",
			Action:  "Check notary.poll_interval and notary.timeout in config.",
		},
	},
	{
		err: ErrMenuCanceled,
		info: ErrorInfo{
			Message: "Canceled.",
		},
	},
}

//nolint:gochecknoglobals // Derived once from errorInfoEntries
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error, trying a direct
// sentinel lookup before walking wrapped chains.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for the error.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve the issue. The action is empty when
// no clear remediation exists.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
