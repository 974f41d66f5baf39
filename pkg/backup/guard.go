// Package backup enforces the backup-before-mutate invariant. The one-time
// backup taken before the first deploy is the "original" baseline for diff
// and restore until housekeeping removes it.
package backup

import (
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
	"github.com/vivtool/vivtool/pkg/paths"
	"github.com/vivtool/vivtool/pkg/types"
)

// Guard creates and reports pre-mutation backups
type Guard struct {
	fs    types.FS
	paths *paths.Paths
}

// NewGuard creates a backup guard over the given filesystem
func NewGuard(fs types.FS, p *paths.Paths) *Guard {
	return &Guard{fs: fs, paths: p}
}

// State returns the explicit backup lifecycle state for the profile
func (g *Guard) State(profile types.Profile) types.BackupState {
	path := g.paths.BackupPath(profile)
	if filesystem.Exists(g.fs, path) {
		return types.BackupState{Status: types.BackupPresent, Path: path}
	}
	return types.BackupState{Status: types.BackupAbsent}
}

// Ensure guarantees the one-time backup exists before a mutation proceeds.
// An existing backup is left untouched; it always reflects the state
// strictly before the first deploy. A failed copy aborts the caller's
// mutation with BackupFailed and the live document untouched.
func (g *Guard) Ensure(profile types.Profile) (types.BackupState, error) {
	logger := logging.GetLogger("backup")

	if state := g.State(profile); state.Status == types.BackupPresent {
		logger.Debug().
			Str("profile", profile.Dir).
			Str("path", state.Path).
			Msg("Backup already present, keeping original baseline")
		return state, nil
	}

	livePath := g.paths.PreferencesPath(profile)
	if !filesystem.Exists(g.fs, livePath) {
		return types.BackupState{}, errors.Newf(errors.ErrSourceMissing,
			"profile %s has no %s file to back up", profile.Dir, paths.PreferencesFile)
	}

	backupPath := g.paths.BackupPath(profile)
	if err := filesystem.CopyFile(g.fs, livePath, backupPath); err != nil {
		return types.BackupState{}, errors.Wrapf(err, errors.ErrBackupFailed,
			"could not create backup for profile %s", profile.Dir)
	}

	logger.Info().
		Str("profile", profile.Dir).
		Str("path", backupPath).
		Msg("Backup created")
	return types.BackupState{Status: types.BackupPresent, Path: backupPath}, nil
}

// WriteSafety copies the current live document to the per-restore safety
// backup. It is overwritten on each restore and never silently skipped.
func (g *Guard) WriteSafety(profile types.Profile) (string, error) {
	livePath := g.paths.PreferencesPath(profile)
	safetyPath := g.paths.PreRestorePath(profile)

	if err := filesystem.CopyFile(g.fs, livePath, safetyPath); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed,
			"could not create restore safety backup for profile %s", profile.Dir)
	}
	return safetyPath, nil
}
