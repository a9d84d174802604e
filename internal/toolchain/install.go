package toolchain

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mrz1836/liftoff/internal/constants"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// DefaultInstallDir is used when the project sets none.
const DefaultInstallDir = "/Applications"

// Install copies the bundle at appPath into the install directory,
// replacing any previous copy, and returns the installed path.
func (t *Toolchain) Install(ctx context.Context, appPath string) (string, error) {
	if err := t.requireTool(constants.ToolDitto); err != nil {
		return "", err
	}

	dir := t.project.InstallDir
	if dir == "" {
		dir = DefaultInstallDir
	}
	dest := filepath.Join(dir, t.project.BundleName())

	if err := os.RemoveAll(dest); err != nil {
		return "", lerrors.Wrapf(err, "failed to remove previous %s", dest)
	}
	if _, err := t.run(ctx, t.toolTimeout, constants.ToolDitto, appPath, dest); err != nil {
		return "", lerrors.Wrap(err, "install failed")
	}

	t.logger.Info().Str("path", dest).Msg("installed")
	return dest, nil
}
