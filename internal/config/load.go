package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/liftoff/internal/errors"
)

// EnvPrefix prefixes every configuration environment variable,
// e.g. LIFTOFF_NOTARY_POLL_INTERVAL.
const EnvPrefix = "LIFTOFF"

// newViperInstance creates a Viper instance with the LIFTOFF_ environment
// prefix, key replacer and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config and validates it.
func unmarshalAndValidate(ctx context.Context, v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	zerolog.Ctx(ctx).Debug().
		Str("notary.backend", cfg.Notary.Backend).
		Dur("notary.poll_interval", cfg.Notary.PollInterval).
		Dur("notary.timeout", cfg.Notary.Timeout).
		Str("artifact.search_root", cfg.Artifact.SearchRoot).
		Bool("publish.enabled", cfg.Publish.Enabled).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence:
// environment variables over the project config over the global config over
// the built-in defaults. Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	global, _ := GlobalConfigPath()
	return LoadFromPaths(ctx, ProjectConfigPath(), global)
}

// LoadFromPaths loads configuration from specific files. The project file
// merges over the global one; either path may be empty or missing.
func LoadFromPaths(ctx context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if err := readConfigFile(v, globalConfigPath, false); err != nil {
		return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
	}
	if err := readConfigFile(v, projectConfigPath, true); err != nil {
		return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
	}

	return unmarshalAndValidate(ctx, v)
}

// readConfigFile reads or merges path into v, skipping empty or missing paths.
func readConfigFile(v *viper.Viper, path string, merge bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // missing config files are expected
	}

	v.SetConfigFile(path)
	var err error
	if merge {
		err = v.MergeInConfig()
	} else {
		err = v.ReadInConfig()
	}
	if err != nil && !isConfigNotFoundError(err) {
		return err
	}
	return nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides, which
// have the highest precedence. A non-empty configFile replaces the project
// config file. Only non-zero override values are applied.
func LoadWithOverrides(ctx context.Context, configFile string, overrides *Config) (*Config, error) {
	project := ProjectConfigPath()
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "config file %s: %v", configFile, err)
		}
		project = configFile
	}
	global, _ := GlobalConfigPath()

	cfg, err := LoadFromPaths(ctx, project, global)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables can override
// keys that appear in no config file.
// IMPORTANT: Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("project.app_name", d.Project.AppName)
	v.SetDefault("project.dir", d.Project.Dir)
	v.SetDefault("project.path", d.Project.Path)
	v.SetDefault("project.scheme", d.Project.Scheme)
	v.SetDefault("project.derived_data", d.Project.DerivedData)
	v.SetDefault("project.signing_identity", d.Project.SigningIdentity)
	v.SetDefault("project.entitlements", d.Project.Entitlements)
	v.SetDefault("project.install_dir", d.Project.InstallDir)

	v.SetDefault("notary.backend", d.Notary.Backend)
	v.SetDefault("notary.bundle_id", d.Notary.BundleID)
	v.SetDefault("notary.poll_interval", d.Notary.PollInterval)
	v.SetDefault("notary.max_poll_interval", d.Notary.MaxPollInterval)
	v.SetDefault("notary.poll_multiplier", d.Notary.PollMultiplier)
	v.SetDefault("notary.timeout", d.Notary.Timeout)

	v.SetDefault("artifact.search_root", d.Artifact.SearchRoot)
	v.SetDefault("artifact.pattern", d.Artifact.Pattern)
	v.SetDefault("artifact.format", d.Artifact.Format)

	v.SetDefault("publish.enabled", d.Publish.Enabled)
	v.SetDefault("publish.bucket", d.Publish.Bucket)
	v.SetDefault("publish.prefix", d.Publish.Prefix)
	v.SetDefault("publish.region", d.Publish.Region)
	v.SetDefault("publish.endpoint", d.Publish.Endpoint)
	v.SetDefault("publish.force_path_style", d.Publish.ForcePathStyle)

	v.SetDefault("timeouts.build", d.Timeouts.Build)
	v.SetDefault("timeouts.tool", d.Timeouts.Tool)

	v.SetDefault("git.remote", d.Git.Remote)
}

// applyOverrides merges non-zero override values into cfg. Booleans cannot
// be overridden to false here; the CLI handles those with Flags().Changed.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Project.Dir != "" {
		cfg.Project.Dir = overrides.Project.Dir
	}
	if overrides.Project.Scheme != "" {
		cfg.Project.Scheme = overrides.Project.Scheme
	}
	if overrides.Project.SigningIdentity != "" {
		cfg.Project.SigningIdentity = overrides.Project.SigningIdentity
	}

	if overrides.Notary.Backend != "" {
		cfg.Notary.Backend = overrides.Notary.Backend
	}
	if overrides.Notary.Timeout != 0 {
		cfg.Notary.Timeout = overrides.Notary.Timeout
	}

	if overrides.Artifact.Format != "" {
		cfg.Artifact.Format = overrides.Artifact.Format
	}

	if overrides.Publish.Enabled {
		cfg.Publish.Enabled = true
	}
	if overrides.Publish.Bucket != "" {
		cfg.Publish.Bucket = overrides.Publish.Bucket
	}
}

// viperDecoderOption configures mapstructure to decode durations from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
