// Package classifier decides which thread-local-storage build of the
// OpenGL libraries the host can run and drops the entries of the other
// build.
//
// The decision is empirical: a small test program and its companion shared
// object are written to temporary files and executed. Exit status 0 means
// the host supports the new TLS ABI. Probing never fails; every problem
// degrades to the classic ABI, except an SELinux relabel failure, which
// indicates a system recent enough for the new ABI.
package classifier

import (
	"github.com/arthur-debert/driverinstall/pkg/config"
	"github.com/arthur-debert/driverinstall/pkg/installer"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/payload"
	"github.com/arthur-debert/driverinstall/pkg/runner"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/arthur-debert/driverinstall/pkg/ui"
	"github.com/rs/zerolog"
)

// Classifier probes the host and partitions a package by ABI class.
type Classifier struct {
	cfg      *config.Config
	payloads payload.Source
	runner   runner.Runner
	ui       ui.UI
	logger   zerolog.Logger

	// TempDir receives the probe files; empty means os.TempDir.
	TempDir string
}

// New creates a classifier.
func New(cfg *config.Config, payloads payload.Source, run runner.Runner, u ui.UI) *Classifier {
	return &Classifier{
		cfg:      cfg,
		payloads: payloads,
		runner:   run,
		ui:       u,
		logger:   logging.GetLogger("classifier"),
	}
}

// Classify selects the ABI variant for arch and excludes every entry of
// that architecture class built for the other variant. A forced value
// other than ABINone skips probing.
func (c *Classifier) Classify(pkg *types.Package, arch types.ArchClass, forced types.ABIClass) types.Selection {
	sel := types.Selection{Arch: arch, ABI: forced, Forced: forced != types.ABINone}
	if !sel.Forced {
		sel.ABI = c.probe(arch)
	}

	excluded := Partition(pkg, sel)

	label := ""
	if arch == types.ArchCompat32 {
		label = " 32bit"
	}
	if sel.ABI == types.ABINew {
		c.ui.Log("Installing new TLS%s OpenGL libraries.", label)
	} else {
		c.ui.Log("Installing classic TLS%s OpenGL libraries.", label)
	}

	c.logger.Info().
		Str("arch", arch.String()).
		Str("abi", sel.ABI.String()).
		Bool("forced", sel.Forced).
		Int("excluded", excluded).
		Msg("Selected TLS class")
	return sel
}

// ClassifyAll drops compatibility entries when they are disabled, then
// classifies the native and compatibility classes independently, each with
// its own override and payload. Classes without entries are skipped.
func (c *Classifier) ClassifyAll(pkg *types.Package) types.Selections {
	if !c.cfg.Compat32Enabled() {
		if n := DropCompat32(pkg); n > 0 {
			c.logger.Info().Int("excluded", n).Msg("32-bit compatibility files disabled")
		}
	}

	var sels types.Selections
	for _, arch := range []types.ArchClass{types.ArchNative, types.ArchCompat32} {
		if !pkg.HasArch(arch) {
			continue
		}
		sels = append(sels, c.Classify(pkg, arch, c.cfg.ForcedABI(arch)))
	}
	return sels
}

// Partition excludes every entry of sel.Arch whose ABI class is set and
// differs from sel.ABI. It returns the number of entries excluded.
func Partition(pkg *types.Package, sel types.Selection) int {
	n := 0
	for _, e := range pkg.Entries {
		if e.Excluded() || e.Arch != sel.Arch || e.ABI == types.ABINone {
			continue
		}
		if e.ABI != sel.ABI {
			e.Exclude()
			n++
		}
	}
	return n
}

// DropCompat32 excludes every 32-bit compatibility entry.
func DropCompat32(pkg *types.Package) int {
	n := 0
	for _, e := range pkg.Entries {
		if !e.Excluded() && e.Arch == types.ArchCompat32 {
			e.Exclude()
			n++
		}
	}
	return n
}

// probe runs the TLS test for arch. Temporary files are removed on every
// path.
func (c *Classifier) probe(arch types.ArchClass) types.ABIClass {
	names := payload.TLSProbeFor(arch)

	test, err := c.payloads.Get(names.Test)
	var dso []byte
	if err == nil {
		dso, err = c.payloads.Get(names.DSO)
	}
	if err != nil {
		c.logger.Debug().Err(err).Msg("TLS probe payload missing")
		c.ui.Warn("The thread local storage test program is not present; assuming classic tls.")
		return types.ABIClassic
	}

	temps := installer.NewTempFiles(c.TempDir)
	defer func() {
		if err := temps.RemoveAll(); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to remove TLS probe files")
		}
	}()

	testPath, err := temps.Write(names.Test+"-*", test, 0700)
	if err != nil {
		c.ui.Warn("Unable to create temporary file for thread local storage test program (%v); assuming classic tls.", err)
		return types.ABIClassic
	}
	dsoPath, err := temps.Write("tls_test_dso-*.so", dso, 0700)
	if err != nil {
		c.ui.Warn("Unable to create temporary file for thread local storage test program (%v); assuming classic tls.", err)
		return types.ABIClassic
	}

	if !c.setSecurityContext(dsoPath) {
		c.ui.Warn("Unable to set the security context on file %s; assuming new tls.", dsoPath)
		return types.ABINew
	}

	res, err := c.runner.Run(testPath, dsoPath)
	if err != nil {
		c.ui.Warn("Unable to run the thread local storage test program (%v); assuming classic tls.", err)
		return types.ABIClassic
	}
	if res.Success() {
		return types.ABINew
	}
	c.logger.Debug().Int("status", res.ExitStatus).Str("output", res.Output).Msg("TLS probe failed")
	return types.ABIClassic
}

// setSecurityContext relabels a shared object so SELinux lets the probe
// load it. It succeeds trivially when SELinux is disabled.
func (c *Classifier) setSecurityContext(path string) bool {
	if !c.cfg.Host.SELinuxEnabled {
		return true
	}
	res, err := c.runner.Run(c.cfg.Tools.Chcon, "-t", c.cfg.SELinux.ChconType, path)
	return err == nil && res.Success()
}
