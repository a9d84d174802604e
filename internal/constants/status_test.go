package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   SubmissionStatus
		terminal bool
	}{
		{SubmissionStatusSubmitted, false},
		{SubmissionStatusInProgress, false},
		{SubmissionStatusAccepted, true},
		{SubmissionStatusInvalid, true},
		{SubmissionStatusError, true},
		{SubmissionStatusTimeout, true},
		{SubmissionStatus("bogus"), false},
	}

	for _, tc := range tests {
		t.Run(tc.status.String(), func(t *testing.T) {
			assert.Equal(t, tc.terminal, tc.status.IsTerminal())
		})
	}
}

func TestSubmissionStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, SubmissionStatusSubmitted.CanTransitionTo(SubmissionStatusInProgress))
	assert.True(t, SubmissionStatusInProgress.CanTransitionTo(SubmissionStatusInProgress))
	assert.True(t, SubmissionStatusInProgress.CanTransitionTo(SubmissionStatusAccepted))
	assert.True(t, SubmissionStatusSubmitted.CanTransitionTo(SubmissionStatusError))
	assert.False(t, SubmissionStatusInProgress.CanTransitionTo(SubmissionStatusSubmitted))
	assert.False(t, SubmissionStatusAccepted.CanTransitionTo(SubmissionStatusInProgress))
	assert.False(t, SubmissionStatusInvalid.CanTransitionTo(SubmissionStatusAccepted))
}
