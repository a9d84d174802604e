package config

import "github.com/mrz1836/liftoff/internal/constants"

// Defaults not shared with other packages.
const (
	defaultBackend     = "auto"
	defaultFormat      = "zip"
	defaultDerivedData = "build/DerivedData"
	defaultInstallDir  = "/Applications"
	defaultPrefix      = "builds"
	defaultRemote      = "origin"
)

// DefaultConfig returns a new Config with the built-in defaults. These match
// the defaults registered on viper by setDefaults.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			DerivedData: defaultDerivedData,
			InstallDir:  defaultInstallDir,
		},
		Notary: NotaryConfig{
			Backend:         defaultBackend,
			PollInterval:    constants.DefaultPollInterval,
			MaxPollInterval: constants.DefaultMaxPollInterval,
			PollMultiplier:  constants.DefaultPollMultiplier,
			Timeout:         constants.DefaultNotaryTimeout,
		},
		Artifact: ArtifactConfig{
			SearchRoot: constants.DefaultArtifactRoot,
			Pattern:    constants.DefaultArtifactPattern,
			Format:     defaultFormat,
		},
		Publish: PublishConfig{
			Prefix: defaultPrefix,
		},
		Timeouts: TimeoutsConfig{
			Build: constants.DefaultBuildTimeout,
			Tool:  constants.DefaultToolTimeout,
		},
		Git: GitConfig{
			Remote: defaultRemote,
		},
	}
}
