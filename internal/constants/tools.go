package constants

import "time"

// ToolDetectionTimeout is the maximum duration for detecting all tools.
// Detection runs in parallel but must complete within this timeout.
const ToolDetectionTimeout = 5 * time.Second

// External tools invoked by the pipeline.
const (
	// ToolXcrun dispatches to Xcode developer tools (altool, notarytool, stapler).
	ToolXcrun = "xcrun"

	// ToolXcodebuild builds the application.
	ToolXcodebuild = "xcodebuild"

	// ToolCodesign signs the application bundle.
	ToolCodesign = "codesign"

	// ToolDitto creates zip archives that preserve bundle metadata.
	ToolDitto = "ditto"

	// ToolHdiutil creates disk images.
	ToolHdiutil = "hdiutil"

	// ToolAgvtool bumps project version numbers.
	ToolAgvtool = "agvtool"

	// ToolGit commits and pushes release changes.
	ToolGit = "git"

	// ToolSecurity queries the keychain for signing identities.
	ToolSecurity = "security"

	// ToolOpen launches the built application.
	ToolOpen = "open"

	// ToolCurl downloads diagnostic logs published by URL.
	ToolCurl = "curl"
)
