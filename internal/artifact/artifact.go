// Package artifact finds and inspects the packaged application produced by
// the package stage. Nothing in this package modifies the filesystem.
package artifact

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"

	"github.com/mrz1836/liftoff/internal/constants"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// Format identifies the container type of an artifact.
type Format string

const (
	FormatZip Format = "zip"
	FormatDMG Format = "dmg"
	FormatPKG Format = "pkg"
)

// Warning is a non-fatal validation finding.
type Warning string

// WarningUnexpectedLayout means the archive opened fine but the application
// bundle is not at Payload/<App>.app/.
const WarningUnexpectedLayout Warning = "unexpected_layout"

// Artifact describes a packaged application on disk.
type Artifact struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Format   Format    `json:"format"`
	ModTime  time.Time `json:"mod_time"`
	Valid    bool      `json:"valid"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// HasWarning reports whether w was recorded during validation.
func (a *Artifact) HasWarning(w Warning) bool {
	for _, got := range a.Warnings {
		if got == w {
			return true
		}
	}
	return false
}

// Locate returns the most recently modified file under root matching pattern.
// Ties on modification time go to the lexicographically greatest path so the
// result is deterministic.
func Locate(root, pattern string) (string, error) {
	if pattern == "" {
		pattern = constants.DefaultArtifactPattern
	}

	matches, err := filepath.Glob(filepath.Join(root, pattern))
	if err != nil {
		return "", lerrors.Wrapf(err, "invalid artifact pattern %q", pattern)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	candidates := make([]candidate, 0, len(matches))
	for _, m := range matches {
		info, statErr := os.Stat(m)
		if statErr != nil || info.IsDir() {
			continue
		}
		candidates = append(candidates, candidate{path: m, modTime: info.ModTime()})
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no %s under %s, run the package stage first: %w",
			pattern, root, lerrors.ErrArtifactNotFound)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].modTime.Equal(candidates[j].modTime) {
			return candidates[i].modTime.After(candidates[j].modTime)
		}
		return candidates[i].path > candidates[j].path
	})

	return candidates[0].path, nil
}

// Validate checks that the artifact at p exists and, for zip archives, can be
// opened and listed. A missing Payload/<appName>.app/ entry only adds
// WarningUnexpectedLayout. When appName is empty any bundle under Payload/ is
// accepted.
func Validate(p, appName string) (*Artifact, error) {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", p, lerrors.ErrArtifactNotFound)
		}
		return nil, lerrors.Wrapf(err, "failed to stat artifact %s", p)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", p, lerrors.ErrCorruptArchive)
	}

	art := &Artifact{
		Path:    p,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}

	switch strings.ToLower(filepath.Ext(p)) {
	case ".dmg":
		art.Format = FormatDMG
		art.Valid = true
		return art, nil
	case ".pkg":
		art.Format = FormatPKG
		art.Valid = true
		return art, nil
	}

	art.Format = FormatZip
	if err := sniffZip(p); err != nil {
		return nil, err
	}

	names, err := listZip(p)
	if err != nil {
		return nil, err
	}

	if !hasBundle(names, appName) {
		art.Warnings = append(art.Warnings, WarningUnexpectedLayout)
	}
	art.Valid = true

	return art, nil
}

// sniffZip rejects files whose content is not a zip, whatever their extension.
func sniffZip(p string) error {
	mt, err := mimetype.DetectFile(p)
	if err != nil {
		return fmt.Errorf("%s: %w", p, lerrors.ErrCorruptArchive)
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return nil
		}
	}
	return fmt.Errorf("%s is %s, not a zip: %w", p, mt.String(), lerrors.ErrCorruptArchive)
}

func listZip(p string) ([]string, error) {
	rc, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", p, err, lerrors.ErrCorruptArchive)
	}
	defer func() { _ = rc.Close() }()

	names := make([]string, 0, len(rc.File))
	for _, f := range rc.File {
		names = append(names, f.Name)
	}
	return names, nil
}

func hasBundle(names []string, appName string) bool {
	prefix := constants.PayloadDir + "/"
	if appName != "" {
		prefix += strings.TrimSuffix(appName, ".app") + ".app/"
	}

	for _, name := range names {
		name = path.Clean("/" + filepath.ToSlash(name))[1:]
		if appName != "" {
			if strings.HasPrefix(name+"/", prefix) {
				return true
			}
			continue
		}
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			first, _, _ := strings.Cut(rest, "/")
			if strings.HasSuffix(first, ".app") {
				return true
			}
		}
	}
	return false
}
