package operations

import (
	"path/filepath"
	"strings"

	"github.com/vivtool/vivtool/pkg/archive"
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/paths"
	"github.com/vivtool/vivtool/pkg/types"
)

// CleanOptions selects the profile to clean up
type CleanOptions struct {
	Profile types.Profile
}

// CleanResult names the archive and what went into it
type CleanResult struct {
	ArchivePath string
	Archived    []string
}

// Clean archives every vivtool-generated artifact of the profile
// (snapshots, backups, safety backups, diff outputs, orphaned staging
// files) into one zip and removes the originals. All snapshots go at
// once: a partial trim could remove the highest number and break the
// never-reuse contract. The live Preferences file is never touched.
func Clean(env *Env, opts CleanOptions) (*CleanResult, error) {
	dir := env.Paths.ProfileDir(opts.Profile)
	entries, err := env.FS.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProfileNotFound,
			"cannot list profile directory for %s", opts.Profile.Dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if paths.IsArtifact(name) || strings.HasSuffix(name, filesystem.TempSuffix) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.ErrNotFound,
			"profile %s has no artifacts to clean", opts.Profile.Dir)
	}

	zipPath := env.Paths.ArchivePath(opts.Profile, env.timestamp())
	if err := archive.Create(env.FS, zipPath, files); err != nil {
		return nil, err
	}

	return &CleanResult{ArchivePath: zipPath, Archived: files}, nil
}
