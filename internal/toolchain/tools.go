package toolchain

import (
	"context"
	"regexp"
	"sync"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/ctxutil"
	"github.com/mrz1836/liftoff/internal/shell"
)

// ToolStatus is the installation state of an external tool.
type ToolStatus string

const (
	ToolStatusInstalled ToolStatus = "installed"
	ToolStatusMissing   ToolStatus = "missing"
	ToolStatusOutdated  ToolStatus = "outdated"
)

// Tool is the detection result for one external tool.
type Tool struct {
	Name           string     `json:"name"`
	Required       bool       `json:"required"`
	MinVersion     string     `json:"min_version,omitempty"`
	CurrentVersion string     `json:"current_version,omitempty"`
	Status         ToolStatus `json:"status"`
	InstallHint    string     `json:"install_hint,omitempty"`
}

// ToolReport holds the results of detecting every tool.
type ToolReport struct {
	Tools              []Tool `json:"tools"`
	HasMissingRequired bool   `json:"has_missing_required"`
}

// MissingRequired returns required tools that are missing or outdated.
func (r *ToolReport) MissingRequired() []Tool {
	var out []Tool
	for _, tool := range r.Tools {
		if tool.Required && tool.Status != ToolStatusInstalled {
			out = append(out, tool)
		}
	}
	return out
}

//nolint:gochecknoglobals // Compiled once
var xcodeVersionRe = regexp.MustCompile(`Xcode (\d+(?:\.\d+){0,2})`)

type toolSpec struct {
	name        string
	required    bool
	minVersion  string
	versionArgs []string
	versionRe   *regexp.Regexp
	installHint string
}

// MinXcodeVersion is the oldest Xcode that ships notarytool.
const MinXcodeVersion = "13.0"

func toolSpecs() []toolSpec {
	xcodeHint := "Install Xcode from the App Store, then run 'xcode-select --install'"
	return []toolSpec{
		{name: constants.ToolXcodebuild, required: true, minVersion: MinXcodeVersion, versionArgs: []string{"-version"}, versionRe: xcodeVersionRe, installHint: xcodeHint},
		{name: constants.ToolXcrun, required: true, installHint: xcodeHint},
		{name: constants.ToolCodesign, required: true, installHint: xcodeHint},
		{name: constants.ToolDitto, required: true, installHint: "ditto ships with macOS"},
		{name: constants.ToolAgvtool, required: true, installHint: xcodeHint},
		{name: constants.ToolHdiutil, installHint: "hdiutil ships with macOS; needed for disk image packaging"},
		{name: constants.ToolSecurity, installHint: "security ships with macOS; needed to check signing identities"},
		{name: constants.ToolGit, installHint: "Install git: 'xcode-select --install' or brew install git"},
		{name: constants.ToolCurl, installHint: "curl ships with macOS; needed to download altool logs"},
	}
}

// DetectTools checks every tool in parallel.
func DetectTools(ctx context.Context, runner shell.Runner) (*ToolReport, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	detectCtx, cancel := context.WithTimeout(ctx, constants.ToolDetectionTimeout)
	defer cancel()

	specs := toolSpecs()
	tools := make([]Tool, len(specs))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(detectCtx)
	for i, spec := range specs {
		g.Go(func() error {
			tool := detectTool(gCtx, runner, spec)
			mu.Lock()
			tools[i] = tool
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &ToolReport{Tools: tools}
	report.HasMissingRequired = len(report.MissingRequired()) > 0
	return report, nil
}

func detectTool(ctx context.Context, runner shell.Runner, spec toolSpec) Tool {
	tool := Tool{
		Name:        spec.name,
		Required:    spec.required,
		MinVersion:  spec.minVersion,
		InstallHint: spec.installHint,
		Status:      ToolStatusMissing,
	}

	if _, err := runner.LookPath(spec.name); err != nil {
		return tool
	}
	tool.Status = ToolStatusInstalled

	if len(spec.versionArgs) == 0 {
		return tool
	}

	res, err := runner.Run(ctx, shell.Command{Name: spec.name, Args: spec.versionArgs})
	if err != nil {
		tool.CurrentVersion = "unknown"
		return tool
	}

	m := spec.versionRe.FindStringSubmatch(res.Combined())
	if m == nil {
		tool.CurrentVersion = "unknown"
		return tool
	}
	tool.CurrentVersion = m[1]

	if spec.minVersion != "" && versionLess(tool.CurrentVersion, spec.minVersion) {
		tool.Status = ToolStatusOutdated
	}
	return tool
}

func versionLess(current, minimum string) bool {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	low, err := semver.NewVersion(minimum)
	if err != nil {
		return false
	}
	return cur.LessThan(low)
}
