package toolchain

import (
	"context"
	"strings"

	"github.com/mrz1836/liftoff/internal/constants"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// AdHocIdentity signs without a certificate. Ad-hoc signed builds run
// locally but cannot be notarized.
const AdHocIdentity = "-"

// Sign code-signs the bundle at appPath. An empty identity or AdHocIdentity
// produces an ad-hoc signature; any other identity enables the hardened
// runtime and a secure timestamp as notarization requires.
func (t *Toolchain) Sign(ctx context.Context, appPath, identity string) error {
	if err := t.requireTool(constants.ToolCodesign); err != nil {
		return err
	}

	args := []string{"--force", "--deep"}
	if identity == "" || identity == AdHocIdentity {
		args = append(args, "--sign", AdHocIdentity)
	} else {
		args = append(args, "--options", "runtime", "--timestamp", "--sign", identity)
		if t.project.Entitlements != "" {
			args = append(args, "--entitlements", t.project.Entitlements)
		}
	}
	args = append(args, appPath)

	t.logger.Info().
		Str("identity", identity).
		Bool("ad_hoc", identity == "" || identity == AdHocIdentity).
		Msg("signing")

	_, err := t.run(ctx, t.toolTimeout, constants.ToolCodesign, args...)
	return lerrors.Wrap(err, "signing failed")
}

// HasSigningIdentity reports whether the keychain holds a valid code signing
// identity whose name contains identity.
func (t *Toolchain) HasSigningIdentity(ctx context.Context, identity string) (bool, error) {
	if identity == "" || identity == AdHocIdentity {
		return false, nil
	}
	if err := t.requireTool(constants.ToolSecurity); err != nil {
		return false, err
	}

	res, err := t.run(ctx, t.toolTimeout, constants.ToolSecurity, "find-identity", "-v", "-p", "codesigning")
	if err != nil {
		return false, lerrors.Wrap(err, "failed to list signing identities")
	}
	return strings.Contains(res.Stdout, identity), nil
}

// Staple attaches the notarization ticket to a disk image or bundle.
func (t *Toolchain) Staple(ctx context.Context, path string) error {
	_, err := t.run(ctx, t.toolTimeout, constants.ToolXcrun, "stapler", "staple", path)
	return lerrors.Wrap(err, "stapling failed")
}
