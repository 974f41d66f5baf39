package filesystem

import (
	"os"

	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/types"
)

// TempSuffix tags staging artifacts. Orphaned temp files (from an
// interrupted process) match this suffix so housekeeping can find them.
const TempSuffix = ".vivtool-tmp"

// Exists reports whether path exists on fs
func Exists(fs types.FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// CopyFile copies src to dst byte-for-byte. The content is never
// re-serialized; snapshots and backups are exact copies.
func CopyFile(fs types.FS, src, dst string) error {
	data, err := fs.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrSourceMissing, "source file %s does not exist", src)
		}
		return errors.Wrapf(err, errors.ErrWriteFailed, "could not read %s", src)
	}
	if err := fs.WriteFile(dst, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrWriteFailed, "could not write %s", dst)
	}
	return nil
}

// AtomicWriteFile writes data to path through a staging file in the same
// directory, renaming only after the staging write succeeded. An empty
// payload is rejected so a failed computation can never truncate the
// target. The staging file is removed on every failure path.
func AtomicWriteFile(fs types.FS, path string, data []byte) error {
	if len(data) == 0 {
		return errors.Newf(errors.ErrWriteFailed, "refusing to write empty content to %s", path)
	}

	tmp := path + TempSuffix
	if err := fs.WriteFile(tmp, data, 0644); err != nil {
		_ = fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrWriteFailed, "could not stage %s", path)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrWriteFailed, "could not replace %s", path)
	}
	return nil
}
