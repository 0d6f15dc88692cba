package installer

import (
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"golang.org/x/sys/unix"
)

// DirMode is used for every directory created on the way to a destination.
const DirMode fs.FileMode = 0755

// Install copies src to dst with mode, creating missing parent directories.
func Install(src, dst string, mode fs.FileMode) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "unable to create directory %s", dir).
			WithDetail("path", dir)
	}

	// A link at dst is replaced, never written through.
	if info, err := os.Lstat(dst); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if err := os.Remove(dst); err != nil {
			return errors.Wrapf(err, errors.ErrFileCreate, "unable to remove existing link %s", dst).
				WithDetail("path", dst)
		}
	}

	if err := copyFile(src, dst, mode); err != nil {
		return err
	}

	logger := logging.GetLogger("installer")
	logger.Debug().
		Str("source", src).
		Str("destination", dst).
		Str("mode", mode.String()).
		Msg("Installed file")
	return nil
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileOpen, "unable to open %s for copying", src).
			WithDetail("path", src)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "unable to create %s", dst).
			WithDetail("path", dst)
	}
	defer func() {
		_ = out.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileOpen, "unable to determine size of %s", src).
			WithDetail("path", src)
	}

	if size := info.Size(); size > 0 {
		srcMap, err := mapFile(in, size, unix.PROT_READ)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileMap, "unable to map source file %s", src).
				WithDetail("path", src)
		}
		defer func() {
			_ = unix.Munmap(srcMap)
		}()

		if err := writeMapped(out, srcMap); err != nil {
			return err
		}
	}

	if err := out.Chmod(mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "unable to set permissions %04o on %s", modeBits(mode), dst).
			WithDetail("path", dst)
	}
	return nil
}

// writeMapped extends f to len(data) bytes and copies data through a
// shared writable mapping of f.
func writeMapped(f *os.File, data []byte) error {
	name := f.Name()
	size := int64(len(data))

	if _, err := f.Seek(size-1, io.SeekStart); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "unable to set file size for %s", name).
			WithDetail("path", name)
	}
	if _, err := f.Write([]byte{0}); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "unable to write file size for %s", name).
			WithDetail("path", name)
	}

	dstMap, err := mapFile(f, size, unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileMap, "unable to map destination file %s", name).
			WithDetail("path", name)
	}

	copy(dstMap, data)

	if err := unix.Munmap(dstMap); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "unable to unmap destination file %s", name).
			WithDetail("path", name)
	}
	return nil
}

func mapFile(f *os.File, size int64, prot int) ([]byte, error) {
	if size > math.MaxInt {
		return nil, unix.EFBIG
	}
	return unix.Mmap(int(f.Fd()), 0, int(size), prot, unix.MAP_SHARED)
}

// modeBits renders mode as the classic octal permission value.
func modeBits(mode fs.FileMode) uint32 {
	bits := uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		bits |= 04000
	}
	if mode&fs.ModeSetgid != 0 {
		bits |= 02000
	}
	if mode&fs.ModeSticky != 0 {
		bits |= 01000
	}
	return bits
}
