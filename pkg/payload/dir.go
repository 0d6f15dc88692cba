package payload

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/types"
)

// DirSource reads payloads from a directory, normally the extracted
// package root.
type DirSource struct {
	fs  types.FS
	dir string
}

// NewDirSource creates a source reading from dir.
func NewDirSource(fsys types.FS, dir string) *DirSource {
	return &DirSource{fs: fsys, dir: dir}
}

func (s *DirSource) Get(name string) ([]byte, error) {
	path := filepath.Join(s.dir, name)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, missing(name)
		}
		return nil, errors.Wrapf(err, errors.ErrFileOpen, "failed to read payload %s", path)
	}
	if len(data) == 0 {
		return nil, missing(name)
	}
	return data, nil
}
