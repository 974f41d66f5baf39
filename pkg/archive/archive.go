// Package archive is the housekeeping collaborator: it bundles generated
// artifacts into one zip and removes the originals only after the archive
// is confirmed written.
package archive

import (
	"archive/zip"
	"bytes"
	"path/filepath"

	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
	"github.com/vivtool/vivtool/pkg/types"
)

// Create zips the given files into zipPath and then removes the originals.
// The zip is staged in memory and written atomically; originals survive
// any failure before the archive is on disk.
func Create(fs types.FS, zipPath string, files []string) error {
	logger := logging.GetLogger("archive")

	if len(files) == 0 {
		return errors.New(errors.ErrArchiveFailed, "no files to archive")
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, file := range files {
		data, err := fs.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveFailed, "cannot read %s", file)
		}
		entry, err := w.Create(filepath.Base(file))
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveFailed, "cannot add %s", file)
		}
		if _, err := entry.Write(data); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveFailed, "cannot write %s", file)
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrArchiveFailed, "cannot finalize archive")
	}

	if err := filesystem.AtomicWriteFile(fs, zipPath, buf.Bytes()); err != nil {
		return errors.Wrapf(err, errors.ErrArchiveFailed, "cannot write archive %s", zipPath)
	}
	if !filesystem.Exists(fs, zipPath) {
		return errors.Newf(errors.ErrArchiveFailed, "archive %s missing after write", zipPath)
	}

	// Archive confirmed on disk; only now do the originals go away
	for _, file := range files {
		if err := fs.Remove(file); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveFailed,
				"archived but could not remove %s", file)
		}
	}

	logger.Info().Str("archive", zipPath).Int("files", len(files)).Msg("Artifacts archived")
	return nil
}
