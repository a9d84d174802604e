package notary

import (
	"time"

	"github.com/mrz1836/liftoff/internal/constants"
)

// SubmissionRecord tracks one submission from upload to a terminal status.
type SubmissionRecord struct {
	Backend      Backend                    `json:"backend"`
	ArtifactPath string                     `json:"artifact_path"`
	ID           string                     `json:"id,omitempty"`
	Status       constants.SubmissionStatus `json:"status"`
	Polls        int                        `json:"polls"`
	SubmittedAt  time.Time                  `json:"submitted_at"`
	CompletedAt  time.Time                  `json:"completed_at,omitzero"`
	// Diagnostics holds raw tool output for failed submissions or the
	// fetched log for rejected ones.
	Diagnostics string           `json:"diagnostics,omitempty"`
	Log         *NotarizationLog `json:"log,omitempty"`
}

// transition moves the record to next if the move is legal and reports
// whether it happened.
func (r *SubmissionRecord) transition(next constants.SubmissionStatus, at time.Time) bool {
	if !r.Status.CanTransitionTo(next) {
		return false
	}
	r.Status = next
	if next.IsTerminal() {
		r.CompletedAt = at
	}
	return true
}
