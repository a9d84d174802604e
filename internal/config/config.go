// Package config provides configuration management for liftoff with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (LIFTOFF_* prefix)
//  3. Project config (.liftoff/config.yaml)
//  4. Global config (~/.liftoff/config.yaml)
//  5. Built-in defaults
//
// Credentials are never read from config files; see internal/credentials.
//
// IMPORTANT: This package may import internal/constants and internal/errors only.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure for liftoff.
type Config struct {
	// Project describes the application being released.
	Project ProjectConfig `yaml:"project" mapstructure:"project"`

	// Notary controls backend selection and submission polling.
	Notary NotaryConfig `yaml:"notary" mapstructure:"notary"`

	// Artifact controls packaging output and lookup.
	Artifact ArtifactConfig `yaml:"artifact" mapstructure:"artifact"`

	// Publish controls the optional upload of accepted artifacts to S3.
	Publish PublishConfig `yaml:"publish" mapstructure:"publish"`

	// Timeouts bound individual tool invocations.
	Timeouts TimeoutsConfig `yaml:"timeouts" mapstructure:"timeouts"`

	// Git contains settings for the commit-push stage.
	Git GitConfig `yaml:"git" mapstructure:"git"`
}

// ProjectConfig describes the Xcode project to build.
type ProjectConfig struct {
	// AppName is the bundle name without .app.
	// Default: the scheme, then the project directory name.
	AppName string `yaml:"app_name" mapstructure:"app_name"`

	// Dir is the project root. Default: the working directory.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Path is the .xcodeproj or .xcworkspace relative to Dir.
	Path string `yaml:"path" mapstructure:"path"`

	// Scheme is the Xcode scheme to build.
	Scheme string `yaml:"scheme" mapstructure:"scheme"`

	// DerivedData is where xcodebuild writes products.
	// Default: build/DerivedData
	DerivedData string `yaml:"derived_data" mapstructure:"derived_data"`

	// SigningIdentity is the Developer ID identity for release signing.
	// Empty means every build is ad-hoc signed.
	SigningIdentity string `yaml:"signing_identity" mapstructure:"signing_identity"`

	// Entitlements is an optional entitlements plist.
	Entitlements string `yaml:"entitlements" mapstructure:"entitlements"`

	// InstallDir is where the install stage copies the bundle.
	// Default: /Applications
	InstallDir string `yaml:"install_dir" mapstructure:"install_dir"`
}

// NotaryConfig controls backend selection and submission polling.
type NotaryConfig struct {
	// Backend is auto, altool or notarytool. Default: auto
	Backend string `yaml:"backend" mapstructure:"backend" validate:"oneof=auto altool notarytool"`

	// BundleID is the primary bundle identifier sent with altool uploads.
	BundleID string `yaml:"bundle_id" mapstructure:"bundle_id"`

	// PollInterval is the wait between status queries.
	// Default: 30 seconds, Valid range: 1s-10m
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// MaxPollInterval caps the interval when PollMultiplier > 1.
	// Default: 5 minutes
	MaxPollInterval time.Duration `yaml:"max_poll_interval" mapstructure:"max_poll_interval"`

	// PollMultiplier grows the interval after every query.
	// Default: 1.0 (fixed interval), Valid range: 1-10
	PollMultiplier float64 `yaml:"poll_multiplier" mapstructure:"poll_multiplier" validate:"gte=1,lte=10"`

	// Timeout bounds the whole wait for a verdict.
	// Default: 2 hours, Valid range: up to 24h
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ArtifactConfig controls packaging output and lookup.
type ArtifactConfig struct {
	// SearchRoot is where packages are written and looked up.
	// Default: build/dist
	SearchRoot string `yaml:"search_root" mapstructure:"search_root" validate:"required"`

	// Pattern selects candidate artifacts under SearchRoot.
	// Default: *.zip
	Pattern string `yaml:"pattern" mapstructure:"pattern" validate:"required"`

	// Format is zip or dmg. Default: zip
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=zip dmg"`
}

// PublishConfig controls the optional S3 upload of accepted artifacts.
type PublishConfig struct {
	// Enabled turns on the publish-artifact stage. Default: false
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Bucket is the destination bucket. Required when Enabled.
	Bucket string `yaml:"bucket" mapstructure:"bucket" validate:"required_if=Enabled true"`

	// Prefix is prepended to every object key. Default: builds
	Prefix string `yaml:"prefix" mapstructure:"prefix"`

	// Region is the bucket region. Empty uses the AWS default chain.
	Region string `yaml:"region" mapstructure:"region"`

	// Endpoint overrides the S3 endpoint for compatible stores.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,url"`

	// ForcePathStyle uses path-style addressing, needed by most S3-compatible stores.
	ForcePathStyle bool `yaml:"force_path_style" mapstructure:"force_path_style"`
}

// TimeoutsConfig bounds individual tool invocations.
type TimeoutsConfig struct {
	// Build bounds one xcodebuild run. Default: 45 minutes
	Build time.Duration `yaml:"build" mapstructure:"build"`

	// Tool bounds every other tool run. Default: 10 minutes
	Tool time.Duration `yaml:"tool" mapstructure:"tool"`
}

// GitConfig contains settings for the commit-push stage.
type GitConfig struct {
	// Remote is pushed with the release tag. Default: origin
	Remote string `yaml:"remote" mapstructure:"remote" validate:"required"`
}

// ResolvedDir returns the project directory, defaulting to the working directory.
func (p ProjectConfig) ResolvedDir() string {
	if p.Dir != "" {
		return p.Dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// ResolvedAppName returns AppName, falling back to the scheme and then the
// project directory name.
func (p ProjectConfig) ResolvedAppName() string {
	switch {
	case p.AppName != "":
		return p.AppName
	case p.Scheme != "":
		return p.Scheme
	}
	return filepath.Base(p.ResolvedDir())
}
