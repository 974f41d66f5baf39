package operations

import (
	"path/filepath"

	"github.com/vivtool/vivtool/pkg/document"
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
	"github.com/vivtool/vivtool/pkg/types"
)

// ReplaceOptions selects the profile whose bookmarks or menu file is
// replaced from the user template.
type ReplaceOptions struct {
	Profile types.Profile
}

// ReplaceResult reports the replaced file and its backup
type ReplaceResult struct {
	Path       string
	BackupPath string
}

// ReplaceBookmarks replaces the profile's Bookmarks file with the user
// template. The first replacement backs up the live file; the backup is
// never refreshed afterwards.
func ReplaceBookmarks(env *Env, opts ReplaceOptions) (*ReplaceResult, error) {
	return replaceDocument(env, opts.Profile, "bookmarks",
		env.Paths.BookmarksTemplatePath(),
		env.Paths.BookmarksPath(opts.Profile),
		env.Paths.BookmarksBackupPath(opts.Profile))
}

// ReplaceMenu replaces the profile's menu file with the user template.
// The live menu file may not exist yet (the browser creates it lazily);
// in that case no backup is taken and the file is simply materialized.
func ReplaceMenu(env *Env, opts ReplaceOptions) (*ReplaceResult, error) {
	return replaceDocument(env, opts.Profile, "menu",
		env.Paths.MenuTemplatePath(),
		env.Paths.MenuPath(opts.Profile),
		env.Paths.MenuBackupPath(opts.Profile))
}

func replaceDocument(env *Env, profile types.Profile, kind, templatePath, livePath, backupPath string) (*ReplaceResult, error) {
	logger := logging.GetLogger(kind)

	templateRaw, err := env.FS.ReadFile(templatePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceMissing,
			"%s template %s does not exist", kind, templatePath)
	}
	// The template must at least parse; a broken master document should
	// never land in a live profile.
	if _, err := document.Parse(templateRaw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedInput, "%s template %s", kind, templatePath)
	}

	ok, err := env.Confirm.Confirm(
		"Replace the " + kind + " file of profile " + profile.Dir + " with the template?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Newf(errors.ErrDeclined, "%s replace in %s aborted", kind, profile.Dir)
	}

	result := &ReplaceResult{Path: livePath}
	liveExists := filesystem.Exists(env.FS, livePath)
	if liveExists && !filesystem.Exists(env.FS, backupPath) {
		if err := filesystem.CopyFile(env.FS, livePath, backupPath); err != nil {
			return nil, errors.Wrapf(err, errors.ErrBackupFailed,
				"could not back up %s of profile %s", kind, profile.Dir)
		}
	}
	if filesystem.Exists(env.FS, backupPath) {
		result.BackupPath = backupPath
	}

	if err := env.FS.MkdirAll(filepath.Dir(livePath), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrWriteFailed,
			"could not create directory for %s", livePath)
	}
	if err := filesystem.AtomicWriteFile(env.FS, livePath, templateRaw); err != nil {
		return nil, err
	}

	logger.Info().
		Str("profile", profile.Dir).
		Str("path", livePath).
		Msg("Template file deployed")
	return result, nil
}
