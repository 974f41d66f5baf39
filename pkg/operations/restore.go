package operations

import (
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
	"github.com/vivtool/vivtool/pkg/types"
)

// RestoreOptions names the restore target: a snapshot number or the
// original pre-first-deploy backup.
type RestoreOptions struct {
	Profile types.Profile
	Ref     types.RestoreRef
}

// RestoreResult reports the restored source and the safety backup written
// before the live document was replaced.
type RestoreResult struct {
	Profile    types.Profile
	SourcePath string
	SafetyPath string
}

// Restore overwrites the live Preferences with a snapshot's content or
// with the original backup, byte-for-byte. The current state is copied to
// the restore-safety backup first; that copy is refreshed on every
// restore and never skipped.
func Restore(env *Env, opts RestoreOptions) (*RestoreResult, error) {
	logger := logging.GetLogger("restore")

	var sourcePath, describe string
	if opts.Ref.Original {
		state := env.guard().State(opts.Profile)
		if state.Status != types.BackupPresent {
			return nil, errors.Newf(errors.ErrNotFound,
				"profile %s has no original backup; deploy was never run", opts.Profile.Dir)
		}
		sourcePath = state.Path
		describe = "the original backup"
	} else {
		ref, err := env.snapshots().Resolve(opts.Profile, opts.Ref.Number)
		if err != nil {
			return nil, err
		}
		sourcePath = ref.Path
		describe = "snapshot " + ref.Timestamp
	}

	content, err := env.FS.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceMissing, "cannot read %s", sourcePath)
	}

	ok, err := env.Confirm.Confirm(
		"Replace the live Preferences of " + opts.Profile.Dir + " with " + describe + "?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Newf(errors.ErrDeclined, "restore of %s aborted", opts.Profile.Dir)
	}

	safetyPath, err := env.guard().WriteSafety(opts.Profile)
	if err != nil {
		return nil, err
	}

	livePath := env.Paths.PreferencesPath(opts.Profile)
	if err := filesystem.AtomicWriteFile(env.FS, livePath, content); err != nil {
		return nil, err
	}

	logger.Info().
		Str("profile", opts.Profile.Dir).
		Str("source", sourcePath).
		Msg("Preferences restored")

	return &RestoreResult{
		Profile:    opts.Profile,
		SourcePath: sourcePath,
		SafetyPath: safetyPath,
	}, nil
}
