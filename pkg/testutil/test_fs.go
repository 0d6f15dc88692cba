package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/driverinstall/pkg/filesystem"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/spf13/afero"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() (types.FS, afero.Fs) {
	mem := afero.NewMemMapFs()
	return filesystem.NewAferoFS(mem), mem
}

// WriteMemFile writes content to path in mem, creating parent directories.
func WriteMemFile(t *testing.T, mem afero.Fs, path, content string) {
	t.Helper()
	if err := mem.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := afero.WriteFile(mem, path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
