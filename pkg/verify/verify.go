// Package verify checks an installation after the fact: that every file
// and symbolic link is on disk as intended, and that the dynamic linker
// resolves the installed OpenGL libraries to the files just installed.
package verify

import (
	"io/fs"
	"os"
	"regexp"

	"github.com/arthur-debert/driverinstall/pkg/checksum"
	"github.com/arthur-debert/driverinstall/pkg/config"
	"github.com/arthur-debert/driverinstall/pkg/installer"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/payload"
	"github.com/arthur-debert/driverinstall/pkg/runner"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/arthur-debert/driverinstall/pkg/ui"
	"github.com/rs/zerolog"
)

const permMask = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky

var versionedSO = regexp.MustCompile(`\.so\.[0-9]+`)

// Verifier runs the post-install checks. It never modifies entries.
type Verifier struct {
	cfg      *config.Config
	fs       types.FS
	payloads payload.Source
	runner   runner.Runner
	ui       ui.UI
	logger   zerolog.Logger

	// TempDir receives the runtime-linker probe; empty means os.TempDir.
	TempDir string
}

// New creates a verifier.
func New(cfg *config.Config, fsys types.FS, payloads payload.Source, run runner.Runner, u ui.UI) *Verifier {
	return &Verifier{
		cfg:      cfg,
		fs:       fsys,
		payloads: payloads,
		runner:   run,
		ui:       u,
		logger:   logging.GetLogger("verify"),
	}
}

func (v *Verifier) warn(r *Report, path, format string, args ...interface{}) {
	issue := r.add(SeverityWarning, path, format, args...)
	v.ui.Warn("%s", issue.Message)
}

func (v *Verifier) fail(r *Report, path, format string, args ...interface{}) {
	issue := r.add(SeverityError, path, format, args...)
	v.ui.Error("%s", issue.Message)
}

// CheckFiles confirms that every installed symbolic link points where it
// should and every installed file has its intended type, permissions and
// checksum. Every finding is a warning.
func (v *Verifier) CheckFiles(pkg *types.Package) Report {
	var report Report
	active := pkg.Active()

	for i, e := range active {
		v.ui.Progress(float64(i)/float64(len(active)), e.DestinationPath)

		switch {
		case e.IsSymlink():
			v.checkSymlink(&report, e, pkg.Description)
		case v.cfg.Installable(e.Category):
			v.checkFile(&report, e)
		}
	}
	v.ui.Progress(1, "done")

	v.ui.Log("Post-install sanity check %s.", passedOrFailed(report.Clean()))
	return report
}

func (v *Verifier) checkSymlink(r *Report, e *types.Entry, description string) {
	link, target := e.DestinationPath, e.SymlinkTarget

	actual, err := v.fs.Readlink(link)
	if err != nil {
		if info, lerr := v.fs.Lstat(link); lerr == nil && info.Mode()&fs.ModeSymlink == 0 {
			v.warn(r, link, "The path '%s' exists but is not a symbolic link. A symbolic link "+
				"to '%s' is necessary for correct operation of the %s. It is recommended that you "+
				"remove or rename '%s' and create the symbolic link by running `ln -sf %s %s`.",
				link, target, description, link, target, link)
			return
		}
		v.warn(r, link, "The symbolic link '%s' does not exist. This is necessary for correct "+
			"operation of the %s. You can create this symbolic link manually by executing "+
			"`ln -sf %s %s`.", link, description, target, link)
		return
	}
	if actual != target {
		v.warn(r, link, "The symbolic link '%s' does not point to '%s' as is necessary for "+
			"correct operation of the %s. It is possible that `ldconfig` has created this "+
			"incorrect symbolic link because %s's \"soname\" conflicts with that of %s. It is "+
			"recommended that you remove or rename the file '%s' and create the necessary "+
			"symbolic link by running `ln -sf %s %s`.",
			link, target, description, actual, target, actual, target, link)
	}
}

func (v *Verifier) checkFile(r *Report, e *types.Entry) {
	path := e.DestinationPath

	info, err := v.fs.Lstat(path)
	if err != nil {
		v.warn(r, path, "Unable to find installed file '%s' (%v).", path, err)
		return
	}
	if !info.Mode().IsRegular() {
		v.warn(r, path, "The installed file '%s' is not of the correct filetype.", path)
		return
	}
	if got, want := info.Mode()&permMask, e.Mode&permMask; got != want {
		v.warn(r, path, "The installed file '%s' has permissions %04o, but it was installed "+
			"with permissions %04o.", path, unixPerm(got), unixPerm(want))
		return
	}

	if e.Checksum == "" {
		return
	}
	ok, actual, err := checksum.Verify(v.fs, path, e.Checksum)
	switch {
	case err != nil:
		v.warn(r, path, "Unable to compute the checksum of installed file '%s' (%v).", path, err)
	case !ok:
		v.warn(r, path, "The installed file '%s' has a different checksum (%s) than when it "+
			"was installed (%s).", path, actual, e.Checksum)
	}
}

// CheckRuntime asks the linker diagnostic tool where the installed shared
// libraries resolve for each classified architecture, 32-bit first. An
// unresolved native library or a library resolving elsewhere fails the
// check; anything that prevents the check from running is a warning.
func (v *Verifier) CheckRuntime(pkg *types.Package, selections types.Selections) Report {
	var report Report
	for _, arch := range []types.ArchClass{types.ArchCompat32, types.ArchNative} {
		sel, ok := selections.For(arch)
		if !ok {
			continue
		}
		v.checkLinkage(&report, pkg, sel)
		if report.Failed {
			break
		}
	}

	v.ui.Log("Runtime sanity check %s.", passedOrFailed(!report.Failed))
	return report
}

func (v *Verifier) checkLinkage(r *Report, pkg *types.Package, sel types.Selection) {
	compat := sel.Arch == types.ArchCompat32
	name := payload.RTLDProbeFor(sel.Arch)

	probe, err := v.payloads.Get(name)
	if err != nil {
		v.warn(r, "", "The runtime configuration test program is not present; assuming "+
			"successful installation.")
		return
	}

	temps := installer.NewTempFiles(v.TempDir)
	defer func() {
		if err := temps.RemoveAll(); err != nil {
			v.logger.Warn().Err(err).Msg("Failed to remove runtime configuration probe")
		}
	}()

	probePath, err := temps.Write(name+"-*", probe, 0700)
	if err != nil {
		v.warn(r, "", "Unable to create a temporary file for the runtime configuration test "+
			"program (%v); assuming successful installation.", err)
		return
	}

	var output *string
	for _, e := range pkg.Active() {
		if !v.linkageChecked(e, sel) {
			continue
		}

		if output == nil {
			res, err := v.runner.Run(v.cfg.Tools.Ldd, probePath)
			if err != nil || !res.Success() {
				v.logger.Debug().Err(err).Int("status", res.ExitStatus).Msg("Linker diagnostic failed")
				if compat {
					v.warn(r, e.DestinationPath, "Unable to perform the runtime configuration check "+
						"for 32-bit library '%s' ('%s'); this is typically caused by the lack of a "+
						"32-bit compatibility environment. Assuming successful installation.",
						e.Name, e.DestinationPath)
				} else {
					v.warn(r, e.DestinationPath, "Unable to perform the runtime configuration check "+
						"for library '%s' ('%s'); assuming successful installation.",
						e.Name, e.DestinationPath)
				}
				return
			}
			output = &res.Output
		}

		if !v.checkResolved(r, e, *output, compat) {
			return
		}
	}
}

// linkageChecked selects the entries of sel's architecture that take part
// in the runtime check.
func (v *Verifier) linkageChecked(e *types.Entry, sel types.Selection) bool {
	if !e.Category.Caps().LinkageChecked || e.Arch != sel.Arch {
		return false
	}
	if sel.Forced && e.Category == types.CategoryTLSLib {
		return false
	}
	if e.ABI != types.ABINone && e.ABI != sel.ABI {
		return false
	}
	loc := versionedSO.FindStringIndex(e.Name)
	return loc != nil && loc[1] == len(e.Name)
}

// checkResolved compares the linker's answer for e with its destination.
// It returns false when the check must stop.
func (v *Verifier) checkResolved(r *Report, e *types.Entry, output string, compat bool) bool {
	expected := e.DestinationPath
	if locs := versionedSO.FindAllStringIndex(expected, -1); len(locs) > 0 {
		expected = expected[:locs[len(locs)-1][1]]
	}

	found := runner.FieldOf(output, e.Name, 3)
	resolved := found != "" && found != "not"
	if resolved {
		found = runner.CollapseSlashes(found)
		if found == expected || v.sameFile(found, expected) {
			v.logger.Debug().Str("library", e.Name).Str("path", found).Msg("Library resolves to installed file")
			return true
		}
	}

	switch {
	case !resolved && compat:
		v.warn(r, expected, "The runtime configuration check failed for library '%s' (expected: "+
			"'%s', found: (not found)). The most likely reason for this is that the library was "+
			"installed to the wrong location or that your system's dynamic loader configuration "+
			"needs to be updated. Please check the 32-bit OpenGL compatibility library "+
			"installation prefix and/or the dynamic loader configuration.", e.Name, expected)
		return true
	case !resolved:
		v.fail(r, expected, "The runtime configuration check failed for library '%s' (expected: "+
			"'%s', found: (not found)). The most likely reason for this is that the library was "+
			"installed to the wrong location or that your system's dynamic loader configuration "+
			"needs to be updated. Please check the OpenGL library installation prefix and/or "+
			"the dynamic loader configuration.", e.Name, expected)
	default:
		v.fail(r, expected, "The runtime configuration check failed for the library '%s' "+
			"(expected: '%s', found: '%s'). The most likely reason for this is that conflicting "+
			"OpenGL libraries are installed in a location not inspected by the installer. "+
			"Please be sure you have uninstalled any third-party OpenGL and/or third-party "+
			"graphics driver packages.", e.Name, expected, found)
	}
	return false
}

// sameFile reports whether both paths name the same device and inode.
func (v *Verifier) sameFile(a, b string) bool {
	ia, err := v.fs.Stat(a)
	if err != nil {
		return false
	}
	ib, err := v.fs.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

func passedOrFailed(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

// unixPerm converts permission bits to their octal Unix form.
func unixPerm(m fs.FileMode) uint32 {
	bits := uint32(m.Perm())
	if m&fs.ModeSetuid != 0 {
		bits |= 04000
	}
	if m&fs.ModeSetgid != 0 {
		bits |= 02000
	}
	if m&fs.ModeSticky != 0 {
		bits |= 01000
	}
	return bits
}
