// Package manifest reads the package manifest that lists every file of an
// extracted driver distribution together with its mode, category and
// placement fields.
//
// Layout:
//
//	<description>
//	<version>
//	<file> <octal mode> <CATEGORY> [NATIVE|COMPAT32] [CLASSIC|NEW] [path] [target] [checksum]
//
// The bracketed fields are present according to the category's
// capabilities. Blank lines and lines starting with '#' are ignored.
package manifest

import (
	"bufio"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/driverinstall/pkg/checksum"
	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/types"
)

// DefaultName is the manifest file name inside an extracted package.
const DefaultName = ".manifest"

// Load opens and parses the manifest at path. Source paths of the entries
// are resolved relative to the manifest's directory.
func Load(fsys types.FS, path string) (*types.Package, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestNotFound,
			"no package found at %s", path).WithDetail("path", path)
	}
	defer func() {
		_ = f.Close()
	}()

	pkg, err := Parse(f, filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("manifest")
	logger.Debug().
		Str("path", path).
		Str("version", pkg.Version).
		Int("entries", len(pkg.Entries)).
		Msg("Parsed manifest")
	return pkg, nil
}

// Parse reads a manifest from r. baseDir is joined to relative file names.
func Parse(r io.Reader, baseDir string) (*types.Package, error) {
	pkg := &types.Package{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	header := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch header {
		case 0:
			pkg.Description = line
			header++
			continue
		case 1:
			pkg.Version = strings.Fields(line)[0]
			header++
			continue
		}

		entry, err := parseEntry(line, baseDir)
		if err != nil {
			return nil, invalidLine(lineNo, err)
		}
		pkg.Append(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to read manifest")
	}

	if header < 2 {
		return nil, errors.Newf(errors.ErrManifestParse,
			"invalid manifest: missing description or version (line %d)", lineNo+1).
			WithDetail("line", lineNo+1)
	}
	return pkg, nil
}

func invalidLine(lineNo int, err error) error {
	return errors.Wrapf(err, errors.ErrManifestParse, "invalid manifest; error on line %d", lineNo).
		WithDetail("line", lineNo)
}

// fieldReader hands out whitespace-separated fields in order.
type fieldReader struct {
	fields []string
	pos    int
}

func (f *fieldReader) next(name string) (string, error) {
	if f.pos >= len(f.fields) {
		return "", errors.Newf(errors.ErrManifestParse, "missing %s field", name)
	}
	v := f.fields[f.pos]
	f.pos++
	return v, nil
}

func parseEntry(line, baseDir string) (*types.Entry, error) {
	fields := &fieldReader{fields: strings.Fields(line)}

	file, err := fields.next("file")
	if err != nil {
		return nil, err
	}
	modeField, err := fields.next("mode")
	if err != nil {
		return nil, err
	}
	mode, err := ParseMode(modeField)
	if err != nil {
		return nil, err
	}
	keyword, err := fields.next("category")
	if err != nil {
		return nil, err
	}
	category, ok := types.ParseCategory(keyword)
	if !ok {
		return nil, errors.Newf(errors.ErrManifestParse, "unknown category %q", keyword)
	}
	caps := category.Caps()

	source := file
	if !filepath.IsAbs(source) && baseDir != "" {
		source = filepath.Join(baseDir, file)
	}
	entry := types.NewEntry(source, mode, category)

	if caps.HasArch {
		v, err := fields.next("architecture")
		if err != nil {
			return nil, err
		}
		if entry.Arch, ok = types.ParseArchClass(v); !ok {
			return nil, errors.Newf(errors.ErrManifestParse, "invalid architecture %q", v)
		}
	}

	if caps.HasABI {
		v, err := fields.next("TLS class")
		if err != nil {
			return nil, err
		}
		if entry.ABI, ok = types.ParseABIClass(v); !ok {
			return nil, errors.Newf(errors.ErrManifestParse, "invalid TLS class %q", v)
		}
	}

	if caps.HasPath {
		if entry.RelativePath, err = fields.next("path"); err != nil {
			return nil, err
		}
	}

	if caps.Symlink {
		if entry.SymlinkTarget, err = fields.next("symlink target"); err != nil {
			return nil, err
		}
	}

	if fields.pos < len(fields.fields) {
		v := fields.fields[fields.pos]
		if !checksum.IsDigest(v) || fields.pos+1 != len(fields.fields) {
			return nil, errors.Newf(errors.ErrManifestParse, "unexpected field %q", v)
		}
		entry.Checksum = v
	}

	return entry, nil
}

// ParseMode converts an octal permission string such as "0755" or "4755"
// into an fs.FileMode, mapping the setuid, setgid and sticky bits.
func ParseMode(s string) (fs.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil || v > 07777 {
		return 0, errors.Newf(errors.ErrManifestParse, "invalid mode %q", s)
	}

	mode := fs.FileMode(v & 0777)
	if v&04000 != 0 {
		mode |= fs.ModeSetuid
	}
	if v&02000 != 0 {
		mode |= fs.ModeSetgid
	}
	if v&01000 != 0 {
		mode |= fs.ModeSticky
	}
	return mode, nil
}
