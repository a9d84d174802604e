package toolchain

import (
	"context"
	"os"
	"strings"

	"github.com/mrz1836/liftoff/internal/constants"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// Build compiles the project in cfg and returns the built bundle path.
func (t *Toolchain) Build(ctx context.Context, cfg Configuration) (string, error) {
	if err := t.requireTool(constants.ToolXcodebuild); err != nil {
		return "", err
	}

	p := t.project
	args := make([]string, 0, 12)
	if strings.HasSuffix(p.ProjectPath, ".xcworkspace") {
		args = append(args, "-workspace", p.ProjectPath)
	} else if p.ProjectPath != "" {
		args = append(args, "-project", p.ProjectPath)
	}
	args = append(args,
		"-scheme", p.Scheme,
		"-configuration", string(cfg),
		"-derivedDataPath", p.DerivedDataPath,
	)
	// Signing is a separate step so the build never needs an identity.
	args = append(args, "CODE_SIGNING_ALLOWED=NO", "build")

	t.logger.Info().
		Str("scheme", p.Scheme).
		Str("configuration", string(cfg)).
		Msg("building")

	if _, err := t.run(ctx, t.buildTimeout, constants.ToolXcodebuild, args...); err != nil {
		return "", lerrors.Wrap(err, "build failed")
	}

	product := p.ProductPath(cfg)
	if _, err := os.Stat(product); err != nil {
		return "", lerrors.Wrapf(lerrors.ErrArtifactNotFound, "build produced no %s", product)
	}
	return product, nil
}

// Launch opens a built bundle.
func (t *Toolchain) Launch(ctx context.Context, appPath string) error {
	if err := t.requireTool(constants.ToolOpen); err != nil {
		return err
	}
	_, err := t.run(ctx, t.toolTimeout, constants.ToolOpen, appPath)
	return lerrors.Wrap(err, "launch failed")
}
