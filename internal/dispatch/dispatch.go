// Package dispatch maps operation names and menu choices to pipeline plans.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/pipeline"
	"github.com/mrz1836/liftoff/internal/toolchain"
)

// Operation names.
const (
	OpVerify         = "verify"
	OpDebugRun       = "debug-run"
	OpDebugPackage   = "debug-package"
	OpDebugInstall   = "debug-install"
	OpReleaseRun     = "release-run"
	OpReleasePackage = "release-package"
	OpReleaseInstall = "release-install"
	OpDeliver        = "deliver"
	OpDeliverPublish = "deliver-publish"
	OpHelp           = "help"
)

// Operation describes one entry point.
type Operation struct {
	Name        string
	Menu        string
	Description string
	Stages      []pipeline.StageName
	// Configuration is empty for operations that do not build.
	Configuration toolchain.Configuration
	Delivery      bool
	NeedsVersion  bool
}

// Plan is a resolved operation ready to execute.
type Plan struct {
	Operation Operation
	Version   string
}

// Params are the user-supplied operation parameters.
type Params struct {
	Version string
}

// IsHelp reports whether the plan only prints usage.
func (p Plan) IsHelp() bool {
	return p.Operation.Name == OpHelp
}

// StageOptions returns the options stage construction needs.
func (p Plan) StageOptions() pipeline.StageOptions {
	return pipeline.StageOptions{
		Configuration: p.Operation.Configuration,
		Delivery:      p.Operation.Delivery,
	}
}

func runStages() []pipeline.StageName {
	return []pipeline.StageName{pipeline.StageBuild, pipeline.StageLaunch}
}

func packageStages() []pipeline.StageName {
	return []pipeline.StageName{pipeline.StageBuild, pipeline.StagePackage}
}

func installStages() []pipeline.StageName {
	return []pipeline.StageName{pipeline.StageBuild, pipeline.StagePackage, pipeline.StageInstall}
}

func deliverStages(publish bool) []pipeline.StageName {
	stages := []pipeline.StageName{pipeline.StagePreflight, pipeline.StageBumpVersion}
	if publish {
		stages = append(stages, pipeline.StageCommitPush)
	}
	return append(stages,
		pipeline.StageBuild,
		pipeline.StagePackage,
		pipeline.StageNotarize,
		pipeline.StagePublishArtifact,
		pipeline.StageCleanup,
	)
}

// Operations returns every operation in menu order.
func Operations() []Operation {
	return []Operation{
		{Name: OpVerify, Menu: "1", Description: "Check that the build tools are installed", Stages: []pipeline.StageName{pipeline.StageCheckTools}},
		{Name: OpDebugRun, Menu: "2", Description: "Build debug and launch", Stages: runStages(), Configuration: toolchain.ConfigurationDebug},
		{Name: OpDebugPackage, Menu: "3", Description: "Build debug and package", Stages: packageStages(), Configuration: toolchain.ConfigurationDebug},
		{Name: OpDebugInstall, Menu: "4", Description: "Build debug, package and install", Stages: installStages(), Configuration: toolchain.ConfigurationDebug},
		{Name: OpReleaseRun, Menu: "5", Description: "Build release and launch", Stages: runStages(), Configuration: toolchain.ConfigurationRelease},
		{Name: OpReleasePackage, Menu: "6", Description: "Build release and package", Stages: packageStages(), Configuration: toolchain.ConfigurationRelease},
		{Name: OpReleaseInstall, Menu: "7", Description: "Build release, package and install", Stages: installStages(), Configuration: toolchain.ConfigurationRelease},
		{
			Name: OpDeliver, Menu: "8", Description: "Bump version, build, sign and notarize",
			Stages: deliverStages(false), Configuration: toolchain.ConfigurationRelease, Delivery: true, NeedsVersion: true,
		},
		{
			Name: OpDeliverPublish, Menu: "9", Description: "Deliver after committing and pushing the version bump",
			Stages: deliverStages(true), Configuration: toolchain.ConfigurationRelease, Delivery: true, NeedsVersion: true,
		},
		{Name: OpHelp, Menu: "0", Description: "Show usage"},
	}
}

// Names returns the recognized operation names in menu order.
func Names() []string {
	ops := Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}

// Lookup finds an operation by name or menu number.
func Lookup(name string) (Operation, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, op := range Operations() {
		if op.Name == key || op.Menu == key {
			return op, true
		}
	}
	return Operation{}, false
}

// Resolve maps name to a plan and validates its parameters. Operations that
// take a version require a semantic version string.
func Resolve(name string, params Params) (Plan, error) {
	op, ok := Lookup(name)
	if !ok {
		return Plan{}, fmt.Errorf("%q (recognized: %s): %w",
			name, strings.Join(Names(), ", "), lerrors.ErrUnknownOperation)
	}

	plan := Plan{Operation: op}
	if !op.NeedsVersion {
		return plan, nil
	}

	version, err := NormalizeVersion(params.Version)
	if err != nil {
		return Plan{}, fmt.Errorf("%s: %w", op.Name, err)
	}
	plan.Version = version
	return plan, nil
}

// NormalizeVersion validates v as a semantic version and strips a leading
// "v" so tags are not doubled.
func NormalizeVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("version is required: %w", lerrors.ErrMissingParameter)
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return "", fmt.Errorf("version %q: %w", v, lerrors.ErrInvalidParameter)
	}
	return strings.TrimPrefix(parsed.Original(), "v"), nil
}
