// Package notary submits packaged artifacts to Apple's review services and
// tracks them to a terminal state.
//
// Two backends are supported, tried in a fixed priority order: altool (store
// submission, primary) and notarytool (notarization, secondary). Both speak
// free-form text, so every interpretation of their output goes through
// Classifier.
package notary

import (
	"fmt"
	"strings"

	"github.com/mrz1836/liftoff/internal/credentials"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// Backend identifies an upload service.
type Backend string

const (
	// BackendAltool is the primary backend, used for store submission.
	BackendAltool Backend = "altool"

	// BackendNotarytool is the secondary backend, used for notarization.
	BackendNotarytool Backend = "notarytool"
)

// Purpose describes what a backend's submissions are for.
type Purpose string

const (
	PurposeStoreSubmission Purpose = "store-submission"
	PurposeNotarization    Purpose = "notarization"
)

// Backends returns all backends in priority order, primary first.
func Backends() []Backend {
	return []Backend{BackendAltool, BackendNotarytool}
}

// ParseBackend converts a name to a Backend.
func ParseBackend(name string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(name)))
	if !b.Valid() {
		return "", fmt.Errorf("%q (expected %s or %s): %w", name, BackendAltool, BackendNotarytool, lerrors.ErrUnknownBackend)
	}
	return b, nil
}

// Valid reports whether b is a known backend.
func (b Backend) Valid() bool {
	return b == BackendAltool || b == BackendNotarytool
}

func (b Backend) String() string { return string(b) }

// Purpose returns the kind of review the backend performs.
func (b Backend) Purpose() Purpose {
	if b == BackendNotarytool {
		return PurposeNotarization
	}
	return PurposeStoreSubmission
}

// Requirement returns the credential fields the backend needs.
func (b Backend) Requirement() credentials.Requirement {
	if b == BackendNotarytool {
		return credentials.RequirementNotarize
	}
	return credentials.RequirementUpload
}

// Mode selects how the upload backend is chosen.
type Mode struct {
	backend Backend
}

// ModeAuto probes backends in priority order and uses the first that accepts.
func ModeAuto() Mode { return Mode{} }

// ModeExplicit probes and uses only b.
func ModeExplicit(b Backend) Mode { return Mode{backend: b} }

// ParseMode accepts "auto" (or empty) or a backend name.
func ParseMode(s string) (Mode, error) {
	if s == "" || strings.EqualFold(s, "auto") {
		return ModeAuto(), nil
	}
	b, err := ParseBackend(s)
	if err != nil {
		return Mode{}, err
	}
	return ModeExplicit(b), nil
}

// IsAuto reports whether m is automatic selection.
func (m Mode) IsAuto() bool { return m.backend == "" }

// Backend returns the explicit backend, or "" in auto mode.
func (m Mode) Backend() Backend { return m.backend }

func (m Mode) String() string {
	if m.IsAuto() {
		return "auto"
	}
	return m.backend.String()
}
