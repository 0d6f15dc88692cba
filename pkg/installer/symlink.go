package installer

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/logging"
)

// InstallSymlink creates dst as a symbolic link to target, creating
// missing parent directories and replacing any existing non-directory
// at dst.
func InstallSymlink(target, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "unable to create directory %s", dir).
			WithDetail("path", dir)
	}

	if info, err := os.Lstat(dst); err == nil {
		if info.IsDir() {
			return errors.Newf(errors.ErrSymlinkCreate, "unable to create symbolic link %s: a directory is in the way", dst).
				WithDetail("path", dst)
		}
		if err := os.Remove(dst); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "unable to remove existing %s", dst).
				WithDetail("path", dst)
		}
	}

	if err := os.Symlink(target, dst); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "unable to create symbolic link %s -> %s", dst, target).
			WithDetail("path", dst)
	}

	logger := logging.GetLogger("installer")
	logger.Debug().
		Str("target", target).
		Str("link", dst).
		Msg("Installed symlink")
	return nil
}
