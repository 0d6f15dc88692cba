package types

import (
	"io"
	"io/fs"
)

// FS is the read-side filesystem interface used by components that inspect
// the host without writing to it.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)
	ReadFile(name string) ([]byte, error)
	Open(name string) (io.ReadCloser, error)
}
