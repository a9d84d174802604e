// Package credentials holds the Apple account identity and app-specific
// password used to talk to the notarization and store-upload services.
//
// Credentials are read from the environment exactly once, at the CLI entry
// point, and then passed explicitly to every component that needs them.
// Nothing below the entry point reads the process environment.
package credentials

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/mrz1836/liftoff/internal/constants"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/logging"
)

// Requirement names the set of fields an operation needs.
type Requirement string

const (
	// RequirementUpload needs the Apple ID and password (store upload via altool).
	RequirementUpload Requirement = "upload"

	// RequirementNotarize additionally needs the team identifier (notarytool).
	RequirementNotarize Requirement = "notarize"
)

// Field names reported by Missing.
const (
	FieldAppleID  = "apple_id"
	FieldPassword = "apple_password"
	FieldTeamID   = "team_id"
)

// Credentials is an immutable credential set.
type Credentials struct {
	appleID  string
	password string
	teamID   string
}

// New builds a credential set from explicit values.
func New(appleID, password, teamID string) Credentials {
	return Credentials{
		appleID:  strings.TrimSpace(appleID),
		password: strings.TrimSpace(password),
		teamID:   strings.TrimSpace(teamID),
	}
}

// envSpec is the primary environment layout.
type envSpec struct {
	AppleID  string `env:"LIFTOFF_APPLE_ID"`
	Password string `env:"LIFTOFF_APPLE_PASSWORD"`
	TeamID   string `env:"LIFTOFF_TEAM_ID"`
}

// legacySpec is the layout used by older release scripts.
type legacySpec struct {
	AppleID  string `env:"APPLE_ID"`
	Password string `env:"APPLE_APP_PASSWORD"`
	TeamID   string `env:"APPLE_TEAM_ID"`
}

// Load reads the credential variables through lookuper. The LIFTOFF_ names win
// over the legacy APPLE_ names field by field. Missing variables are not an
// error; use IsComplete to decide what the run can do.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (Credentials, error) {
	var primary envSpec
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &primary, Lookuper: lookuper}); err != nil {
		return Credentials{}, lerrors.Wrap(err, "failed to read credential environment")
	}

	var legacy legacySpec
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &legacy, Lookuper: lookuper}); err != nil {
		return Credentials{}, lerrors.Wrap(err, "failed to read legacy credential environment")
	}

	return New(
		firstNonEmpty(primary.AppleID, legacy.AppleID),
		firstNonEmpty(primary.Password, legacy.Password),
		firstNonEmpty(primary.TeamID, legacy.TeamID),
	), nil
}

// FromEnvironment loads credentials from the process environment.
func FromEnvironment(ctx context.Context) (Credentials, error) {
	return Load(ctx, envconfig.OsLookuper())
}

// AppleID returns the account identity. Safe to log.
func (c Credentials) AppleID() string { return c.appleID }

// Password returns the app-specific password. Never log it.
func (c Credentials) Password() string { return c.password }

// TeamID returns the developer team identifier.
func (c Credentials) TeamID() string { return c.teamID }

// Missing lists the fields required by req that are empty.
func (c Credentials) Missing(req Requirement) []string {
	var missing []string
	if c.appleID == "" {
		missing = append(missing, FieldAppleID)
	}
	if c.password == "" {
		missing = append(missing, FieldPassword)
	}
	if req == RequirementNotarize && c.teamID == "" {
		missing = append(missing, FieldTeamID)
	}
	return missing
}

// IsComplete reports whether every field needed for req is present.
func (c Credentials) IsComplete(req Requirement) bool {
	return len(c.Missing(req)) == 0
}

// Check returns ErrCredentialsIncomplete naming the missing fields, or nil.
func (c Credentials) Check(req Requirement) error {
	missing := c.Missing(req)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%s requires %s (set %s, %s, %s): %w",
		req, strings.Join(missing, ", "),
		constants.EnvAppleID, constants.EnvApplePassword, constants.EnvTeamID,
		lerrors.ErrCredentialsIncomplete)
}

// String renders the credentials with the password redacted.
func (c Credentials) String() string {
	pw := ""
	if c.password != "" {
		pw = logging.RedactedValue
	}
	return fmt.Sprintf("apple_id=%q password=%q team_id=%q", c.appleID, pw, c.teamID)
}

// MarshalZerologObject logs identity fields and only whether a password is set.
func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("apple_id", c.appleID).
		Bool("has_password", c.password != "").
		Str("team_id", c.teamID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
