// Package constants provides centralized constant values used throughout liftoff.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by liftoff.
const (
	// LiftoffHome is the hidden directory name where liftoff stores its logs and
	// global configuration. It is created in the user's home directory.
	LiftoffHome = ".liftoff"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// LocksDir holds the per-project run locks under ~/.liftoff.
	LocksDir = "locks"

	// ProjectConfigDir is the per-project configuration directory.
	ProjectConfigDir = ".liftoff"

	// ConfigFileName is the name of both the global and project configuration files.
	ConfigFileName = "config.yaml"
)

// Log file configuration.
const (
	// CLILogFileName is the name of the rotating CLI log file in ~/.liftoff/logs.
	CLILogFileName = "liftoff.log"

	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 5

	// LogMaxAgeDays is the number of days rotated files are kept.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// Notarization polling defaults.
const (
	// DefaultPollInterval is the wait between status queries (30 seconds).
	DefaultPollInterval = 30 * time.Second

	// DefaultMaxPollInterval caps the interval when backoff is enabled.
	DefaultMaxPollInterval = 5 * time.Minute

	// DefaultPollMultiplier is the backoff factor; 1.0 keeps the interval fixed.
	DefaultPollMultiplier = 1.0

	// DefaultNotaryTimeout bounds the whole wait for a terminal status.
	DefaultNotaryTimeout = 2 * time.Hour

	// DefaultToolTimeout bounds a single external tool invocation that is not a build.
	DefaultToolTimeout = 10 * time.Minute

	// DefaultBuildTimeout bounds a single build invocation.
	DefaultBuildTimeout = 45 * time.Minute
)

// Credential environment variables.
const (
	// EnvAppleID holds the Apple ID used for submissions.
	EnvAppleID = "LIFTOFF_APPLE_ID"

	// EnvApplePassword holds the app-specific password for the Apple ID.
	EnvApplePassword = "LIFTOFF_APPLE_PASSWORD" //nolint:gosec // variable name, not a credential

	// EnvTeamID holds the developer team identifier.
	EnvTeamID = "LIFTOFF_TEAM_ID"
)

// Artifact naming defaults.
const (
	// DefaultArtifactPattern matches packaged archives produced by the package stage.
	DefaultArtifactPattern = "*.zip"

	// DefaultArtifactRoot is where the package stage writes its output.
	DefaultArtifactRoot = "build/dist"

	// PayloadDir is the top-level directory of store-style app archives.
	PayloadDir = "Payload"
)
