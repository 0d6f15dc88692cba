// Package resolver computes the absolute installation path of each entry
// from its category, its stored directory and the configured prefixes.
package resolver

import (
	"path"
	"strings"

	"github.com/arthur-debert/driverinstall/pkg/config"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/rs/zerolog"
)

const (
	headerDir        = "include/GL"
	binDir           = "bin"
	xdgDesktopDir    = "applications"
	prefixDesktopDir = "share/applications"
)

// Resolver assigns destinations. It only reads the filesystem to check
// that the XDG data directory used for desktop entries exists.
type Resolver struct {
	cfg    *config.Config
	fs     types.FS
	logger zerolog.Logger
}

// New creates a resolver for a resolved configuration.
func New(cfg *config.Config, fsys types.FS) *Resolver {
	return &Resolver{
		cfg:    cfg,
		fs:     fsys,
		logger: logging.GetLogger("resolver"),
	}
}

// Resolve returns the destination of e, or false when e is not installed
// on this host. It does not modify e.
func (r *Resolver) Resolve(e *types.Entry) (string, bool) {
	if e.Excluded() {
		return "", false
	}

	rel := e.RelativePath
	if e.Category.Caps().HasPath {
		rel = r.rewriteLibDir(rel, e.Arch)
	}

	var prefix, dir string
	p := r.cfg.Prefixes

	switch e.Category {
	case types.CategoryKernelModuleSrc, types.CategoryKernelModuleCmd:
		return "", false

	case types.CategoryKernelModule:
		if e.DestinationPath != "" {
			return e.DestinationPath, true
		}
		if p.KernelModule == "" {
			return "", false
		}
		prefix = p.KernelModule

	case types.CategoryOpenGLLib, types.CategoryOpenGLSymlink,
		types.CategoryTLSLib, types.CategoryTLSSymlink, types.CategoryLibGLLa:
		prefix, dir = p.OpenGL, rel

	case types.CategoryXLibSharedLib, types.CategoryXLibStaticLib, types.CategoryXLibSymlink:
		prefix, dir = p.X, rel

	case types.CategoryXModuleSharedLib, types.CategoryXModuleStaticLib, types.CategoryXModuleSymlink:
		prefix, dir = p.XModule, rel

	case types.CategoryOpenGLHeader:
		prefix, dir = p.OpenGL, headerDir

	case types.CategoryDocumentation:
		prefix, dir = p.Documentation, rel

	case types.CategoryInstallerBinary:
		prefix, dir = p.Installer, binDir

	case types.CategoryUtilityBinary:
		prefix, dir = p.Utility, binDir

	case types.CategoryDotDesktop:
		if xdgDir, ok := r.desktopDataDir(); ok {
			prefix, dir = xdgDir, xdgDesktopDir
		} else {
			prefix, dir = p.OpenGL, prefixDesktopDir
		}

	default:
		return "", false
	}

	dst := path.Join(prefix, dir, e.Name)
	if e.Arch == types.ArchCompat32 && p.Compat32Root != "" {
		dst = path.Join(p.Compat32Root, dst)
	}
	return dst, true
}

// ResolveAll assigns DestinationPath to every entry, excluding the ones
// that do not resolve. It returns the number of entries excluded.
func (r *Resolver) ResolveAll(pkg *types.Package) int {
	excluded := 0
	for _, e := range pkg.Entries {
		if e.Excluded() {
			continue
		}
		dst, ok := r.Resolve(e)
		if !ok {
			r.logger.Debug().
				Str("name", e.Name).
				Str("category", e.Category.String()).
				Msg("No destination; excluding")
			e.Exclude()
			excluded++
			continue
		}
		e.DestinationPath = dst
		r.logger.Trace().Str("name", e.Name).Str("destination", dst).Msg("Resolved")
	}
	r.logger.Info().Int("excluded", excluded).Msg("Destinations resolved")
	return excluded
}

// rewriteLibDir adapts a stored library directory to the host layout.
// Only 64-bit hosts are affected.
func (r *Resolver) rewriteLibDir(rel string, arch types.ArchClass) string {
	if !r.cfg.Host.Is64Bit || rel == "" {
		return rel
	}
	distro := r.cfg.Host.Distro

	segments := strings.Split(rel, "/")
	if !distro.FollowsLib64Convention() {
		if i := indexOf(segments, "lib64"); i >= 0 {
			segments[i] = "lib"
			return strings.Join(segments, "/")
		}
	}

	compatDir := distro.Compat32LibDir()
	if arch != types.ArchCompat32 || compatDir == "" {
		return rel
	}
	if i := indexOf(segments, "lib"); i >= 0 {
		segments[i] = compatDir
		return strings.TrimSuffix(strings.Join(segments, "/"), "/")
	}
	return rel
}

// desktopDataDir returns the first configured XDG data directory when it
// exists on disk.
func (r *Resolver) desktopDataDir() (string, bool) {
	dirs := r.cfg.Host.XDGDataDirs
	if len(dirs) == 0 || dirs[0] == "" {
		return "", false
	}
	info, err := r.fs.Stat(dirs[0])
	if err != nil || !info.IsDir() {
		r.logger.Debug().Str("dir", dirs[0]).Msg("XDG data directory missing; using OpenGL prefix")
		return "", false
	}
	return dirs[0], true
}

func indexOf(segments []string, s string) int {
	for i, seg := range segments {
		if seg == s {
			return i
		}
	}
	return -1
}
