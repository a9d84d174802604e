package constants

// SubmissionStatus is the state of a notarization submission.
// Status values use snake_case for JSON serialization compatibility.
//
//	Submitted → InProgress, Accepted, Invalid, Error, Timeout
//	InProgress → InProgress, Accepted, Invalid, Error, Timeout
//
// Accepted, Invalid, Error and Timeout are terminal.
type SubmissionStatus string

// Submission status values.
const (
	// SubmissionStatusSubmitted indicates the upload succeeded and an identifier was issued.
	SubmissionStatusSubmitted SubmissionStatus = "submitted"

	// SubmissionStatusInProgress indicates the service is still reviewing the artifact.
	SubmissionStatusInProgress SubmissionStatus = "in_progress"

	// SubmissionStatusAccepted indicates the service approved the artifact.
	SubmissionStatusAccepted SubmissionStatus = "accepted"

	// SubmissionStatusInvalid indicates the service rejected the artifact.
	SubmissionStatusInvalid SubmissionStatus = "invalid"

	// SubmissionStatusError indicates the tool invocation itself failed.
	SubmissionStatusError SubmissionStatus = "error"

	// SubmissionStatusTimeout indicates the maximum wait elapsed before a terminal state.
	SubmissionStatusTimeout SubmissionStatus = "timeout"
)

// String returns the string representation of the status.
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsTerminal reports whether polling stops at this status.
func (s SubmissionStatus) IsTerminal() bool {
	switch s {
	case SubmissionStatusAccepted, SubmissionStatusInvalid, SubmissionStatusError, SubmissionStatusTimeout:
		return true
	case SubmissionStatusSubmitted, SubmissionStatusInProgress:
		return false
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case SubmissionStatusInProgress, SubmissionStatusAccepted, SubmissionStatusInvalid,
		SubmissionStatusError, SubmissionStatusTimeout:
		return true
	case SubmissionStatusSubmitted:
		return false
	}
	return false
}
