package toolchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/liftoff/internal/testutil"
)

func findTool(t *testing.T, report *ToolReport, name string) Tool {
	t.Helper()
	for _, tool := range report.Tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not in report", name)
	return Tool{}
}

func TestDetectTools(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		runner := testutil.NewFakeRunner().On("xcodebuild -version", testutil.Response{Stdout: "Xcode 16.2\nBuild version 16C5032a"})

		report, err := DetectTools(context.Background(), runner)
		require.NoError(t, err)
		assert.False(t, report.HasMissingRequired)
		assert.Equal(t, "16.2", findTool(t, report, "xcodebuild").CurrentVersion)
		assert.Len(t, report.Tools, len(toolSpecs()))
	})

	t.Run("missing required tool", func(t *testing.T) {
		runner := testutil.NewFakeRunner().Missing("codesign", "git").
			On("xcodebuild -version", testutil.Response{Stdout: "Xcode 15.4"})

		report, err := DetectTools(context.Background(), runner)
		require.NoError(t, err)
		assert.True(t, report.HasMissingRequired)

		missing := report.MissingRequired()
		require.Len(t, missing, 1, "git is optional")
		assert.Equal(t, "codesign", missing[0].Name)
		assert.Equal(t, ToolStatusMissing, findTool(t, report, "git").Status)
	})

	t.Run("outdated xcode", func(t *testing.T) {
		runner := testutil.NewFakeRunner().On("xcodebuild -version", testutil.Response{Stdout: "Xcode 12.5.1"})

		report, err := DetectTools(context.Background(), runner)
		require.NoError(t, err)
		assert.Equal(t, ToolStatusOutdated, findTool(t, report, "xcodebuild").Status)
		assert.True(t, report.HasMissingRequired)
	})

	t.Run("unparseable version counts as installed", func(t *testing.T) {
		runner := testutil.NewFakeRunner().On("xcodebuild -version", testutil.Response{Stdout: "xcode-select: error: tool 'xcodebuild' requires Xcode"})

		report, err := DetectTools(context.Background(), runner)
		require.NoError(t, err)
		tool := findTool(t, report, "xcodebuild")
		assert.Equal(t, ToolStatusInstalled, tool.Status)
		assert.Equal(t, "unknown", tool.CurrentVersion)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := DetectTools(ctx, testutil.NewFakeRunner())
		require.ErrorIs(t, err, context.Canceled)
	})
}
