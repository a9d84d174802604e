package toolchain

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mrz1836/liftoff/internal/constants"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// PackageFormat selects the artifact container.
type PackageFormat string

const (
	PackageZip PackageFormat = "zip"
	PackageDMG PackageFormat = "dmg"
)

// Package wraps the bundle at appPath into an artifact in the output
// directory and returns its path. Zip artifacts use the Payload/<App>.app/
// layout; disk images contain the bundle at their root.
func (t *Toolchain) Package(ctx context.Context, appPath, version string, format PackageFormat) (string, error) {
	outDir := t.project.abs(t.project.OutputDir)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return "", lerrors.Wrapf(err, "failed to create %s", outDir)
	}

	name := t.project.AppName
	if version != "" {
		name += "-" + version
	}

	if format == PackageDMG {
		return t.packageDMG(ctx, appPath, filepath.Join(outDir, name+".dmg"))
	}
	return t.packageZip(ctx, appPath, filepath.Join(outDir, name+".zip"))
}

func (t *Toolchain) packageZip(ctx context.Context, appPath, out string) (string, error) {
	if err := t.requireTool(constants.ToolDitto); err != nil {
		return "", err
	}

	staging, err := os.MkdirTemp("", "liftoff-package-")
	if err != nil {
		return "", lerrors.Wrap(err, "failed to create staging directory")
	}
	defer func() { _ = os.RemoveAll(staging) }()

	payload := filepath.Join(staging, constants.PayloadDir, t.project.BundleName())
	if _, err := t.run(ctx, t.toolTimeout, constants.ToolDitto, appPath, payload); err != nil {
		return "", lerrors.Wrap(err, "failed to stage bundle")
	}

	_ = os.Remove(out)
	if _, err := t.run(ctx, t.toolTimeout, constants.ToolDitto, "-c", "-k", "--sequesterRsrc", staging, out); err != nil {
		return "", lerrors.Wrap(err, "failed to create archive")
	}

	t.logger.Info().Str("artifact", out).Msg("packaged")
	return out, nil
}

func (t *Toolchain) packageDMG(ctx context.Context, appPath, out string) (string, error) {
	if err := t.requireTool(constants.ToolHdiutil); err != nil {
		return "", err
	}

	_, err := t.run(ctx, t.toolTimeout, constants.ToolHdiutil,
		"create",
		"-volname", t.project.AppName,
		"-srcfolder", appPath,
		"-ov",
		"-format", "UDZO",
		out,
	)
	if err != nil {
		return "", lerrors.Wrap(err, "failed to create disk image")
	}

	t.logger.Info().Str("artifact", out).Msg("packaged")
	return out, nil
}
