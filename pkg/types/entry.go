package types

import (
	"io/fs"
	"path"
)

// Entry is one candidate filesystem object from a driver package.
type Entry struct {
	SourcePath      string
	RelativePath    string
	SymlinkTarget   string
	DestinationPath string
	Name            string
	Mode            fs.FileMode
	Checksum        string

	Category Category
	Arch     ArchClass
	ABI      ABIClass

	// Rendered marks entries produced from a template; their source is a
	// temporary file.
	Rendered bool
}

// NewEntry creates an entry and derives its Name from the source path.
func NewEntry(source string, mode fs.FileMode, category Category) *Entry {
	return &Entry{
		SourcePath: source,
		Name:       path.Base(source),
		Mode:       mode,
		Category:   category,
	}
}

// Exclude clears Category and DestinationPath together.
func (e *Entry) Exclude() {
	e.Category = CategoryNone
	e.DestinationPath = ""
}

// Excluded reports whether the entry will not be installed.
func (e *Entry) Excluded() bool {
	return e.Category == CategoryNone
}

// IsSymlink reports whether the entry is installed as a symbolic link.
func (e *Entry) IsSymlink() bool {
	return e.Category.Caps().Symlink
}

// Derive returns a new entry for source that carries this entry's
// architecture, ABI class, stored directory, mode and name, with its own
// category.
func (e *Entry) Derive(source string, category Category) *Entry {
	return &Entry{
		SourcePath:   source,
		RelativePath: e.RelativePath,
		Name:         e.Name,
		Mode:         e.Mode,
		Category:     category,
		Arch:         e.Arch,
		ABI:          e.ABI,
		Rendered:     true,
	}
}
