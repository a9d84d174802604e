package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/liftoff/internal/artifact"
	"github.com/mrz1836/liftoff/internal/tui"
)

// newValidateArtifactCmd checks a packaged artifact without submitting it.
func newValidateArtifactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-artifact [path]",
		Short: "Check that a packaged artifact is a readable archive",
		Long: `Validate a packaged artifact. Without a path the newest file matching
artifact.pattern under artifact.search_root is used.

Zip archives must open and list; a missing Payload/<App>.app/ entry is reported
as a warning only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return a.runValidateArtifact(path)
		},
	}
}

func (a *app) runValidateArtifact(path string) error {
	if path == "" {
		located, err := artifact.Locate(a.artifactRoot(), a.cfg.Artifact.Pattern)
		if err != nil {
			return err
		}
		path = located
	}

	art, err := artifact.Validate(path, a.cfg.Project.ResolvedAppName())
	if err != nil {
		return err
	}
	a.logger.Debug().
		Str("path", art.Path).
		Int64("size", art.Size).
		Int("warnings", len(art.Warnings)).
		Msg("artifact validated")
	return tui.RenderArtifact(a.out, art)
}
