package installer

import (
	"io/fs"
	"os"
	"sync"

	"github.com/arthur-debert/driverinstall/pkg/errors"
)

// WriteTemp writes data to a new uniquely named file in dir (os.TempDir
// when empty) and gives it mode. On failure nothing is left behind.
func WriteTemp(dir, pattern string, data []byte, mode fs.FileMode) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileCreate, "unable to create temporary file in %s", dir).
			WithDetail("path", dir)
	}
	name := f.Name()

	err = fillTemp(f, data, mode)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, errors.ErrFileWrite, "unable to close %s", name)
	}
	if err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

func fillTemp(f *os.File, data []byte, mode fs.FileMode) error {
	if len(data) > 0 {
		if err := writeMapped(f, data); err != nil {
			return err
		}
	}
	if err := f.Chmod(mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "unable to set permissions on %s", f.Name()).
			WithDetail("path", f.Name())
	}
	return nil
}

// TempFiles tracks temporary files created during a run so the caller can
// remove them on every exit path.
type TempFiles struct {
	// Dir is where new temporary files are created; empty means
	// os.TempDir.
	Dir string

	mu    sync.Mutex
	paths []string
}

// NewTempFiles creates a tracker for files created in dir.
func NewTempFiles(dir string) *TempFiles {
	return &TempFiles{Dir: dir}
}

// Write creates a tracked temporary file.
func (t *TempFiles) Write(pattern string, data []byte, mode fs.FileMode) (string, error) {
	name, err := WriteTemp(t.Dir, pattern, data, mode)
	if err != nil {
		return "", err
	}
	t.Add(name)
	return name, nil
}

// Add tracks an existing path.
func (t *TempFiles) Add(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, path)
}

// Paths returns the tracked paths in creation order.
func (t *TempFiles) Paths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.paths...)
}

// RemoveAll deletes every tracked file and forgets it. Files that are
// already gone are ignored; the first other error is returned.
func (t *TempFiles) RemoveAll() error {
	t.mu.Lock()
	paths := t.paths
	t.paths = nil
	t.mu.Unlock()

	var firstErr error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
