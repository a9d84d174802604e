package toolchain

import (
	"context"

	"github.com/mrz1836/liftoff/internal/constants"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// BumpVersion sets the marketing version to version and increments the
// build number in every target.
func (t *Toolchain) BumpVersion(ctx context.Context, version string) error {
	if version == "" {
		return lerrors.Wrap(lerrors.ErrMissingParameter, "version")
	}
	if err := t.requireTool(constants.ToolAgvtool); err != nil {
		return err
	}

	if _, err := t.run(ctx, t.toolTimeout, constants.ToolAgvtool, "new-marketing-version", version); err != nil {
		return lerrors.Wrap(err, "failed to set marketing version")
	}
	if _, err := t.run(ctx, t.toolTimeout, constants.ToolAgvtool, "next-version", "-all"); err != nil {
		return lerrors.Wrap(err, "failed to bump build number")
	}

	t.logger.Info().Str("version", version).Msg("version bumped")
	return nil
}
