// Package testutil provides testing utilities for liftoff.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors used to simulate failure scenarios in tests.
var (
	// ErrMockStageFailed indicates a simulated stage failure.
	ErrMockStageFailed = errors.New("stage failed")

	// ErrMockUpload indicates a simulated object storage failure.
	ErrMockUpload = errors.New("upload failed")
)
