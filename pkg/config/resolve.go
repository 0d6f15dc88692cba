package config

import (
	"os"
	"os/exec"
	"path"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/runner"
	"github.com/arthur-debert/driverinstall/pkg/types"
)

// Environment is what Resolve may consult about the host.
type Environment struct {
	FS     types.FS
	Runner runner.Runner
	// LookPath searches the process search path; nil means exec.LookPath.
	LookPath func(file string) (string, error)
	// Arch is a GOARCH value; empty means runtime.GOARCH.
	Arch string
	// XDGDataDirs overrides the XDG data directories; nil means read them
	// from the environment when XDG_DATA_DIRS is set.
	XDGDataDirs []string
}

var arch64 = map[string]bool{
	"amd64": true, "arm64": true, "ppc64": true, "ppc64le": true,
	"mips64": true, "mips64le": true, "riscv64": true, "s390x": true,
	"loong64": true, "sparc64": true,
}

// Resolve fills in host facts and derived defaults. It runs once, before
// any classification.
func (c *Config) Resolve(env Environment) error {
	logger := logging.GetLogger("config")
	if env.LookPath == nil {
		env.LookPath = exec.LookPath
	}
	if env.Arch == "" {
		env.Arch = runtime.GOARCH
	}

	if c.Distribution == DistributionAuto {
		c.Host.Distro = DetectDistribution(env.FS)
	} else {
		c.Host.Distro, _ = types.ParseDistribution(c.Distribution)
	}
	c.Host.Is64Bit = arch64[env.Arch]

	if c.Host.Is64Bit && c.Host.Distro == types.DistributionDebian && c.Prefixes.Compat32Root == "" {
		c.Prefixes.Compat32Root = DebianCompat32Root
	}

	c.Tools.Ldd = findTool(env, c.Tools.Ldd, "ldd", c.Tools.ExtraPath)
	c.Tools.Chcon = findTool(env, c.Tools.Chcon, "chcon", c.Tools.ExtraPath)
	c.Tools.SELinuxEnabled = findTool(env, c.Tools.SELinuxEnabled, "selinuxenabled", c.Tools.ExtraPath)
	c.Tools.PkgConfig = findTool(env, c.Tools.PkgConfig, "pkg-config", c.Tools.ExtraPath)

	if c.Prefixes.XModule == "" {
		c.Prefixes.XModule = c.xModulePath(env)
	}

	switch {
	case env.XDGDataDirs != nil:
		c.Host.XDGDataDirs = env.XDGDataDirs
	case os.Getenv("XDG_DATA_DIRS") != "":
		xdg.Reload()
		c.Host.XDGDataDirs = xdg.DataDirs
	}

	if err := c.resolveSELinux(env); err != nil {
		return err
	}

	logger.Info().
		Str("distribution", c.Host.Distro.String()).
		Bool("is64Bit", c.Host.Is64Bit).
		Bool("selinux", c.Host.SELinuxEnabled).
		Str("xModulePath", c.Prefixes.XModule).
		Msg("Resolved host configuration")
	return nil
}

// xModulePath asks pkg-config for the X server module directory and
// otherwise derives it from the X prefix.
func (c *Config) xModulePath(env Environment) string {
	if c.Tools.PkgConfig != "" && env.Runner != nil {
		res, err := env.Runner.Run(c.Tools.PkgConfig, "--variable=moduledir", "xorg-server")
		if err == nil && res.Success() {
			dir := trimTrailingSlashes(strings.TrimSpace(res.Output))
			if info, statErr := env.FS.Stat(dir); dir != "" && statErr == nil && info.IsDir() {
				return dir
			}
		}
	}

	lib := "lib"
	if c.Host.Is64Bit && c.Host.Distro.FollowsLib64Convention() {
		lib = "lib64"
	}
	return path.Join(c.Prefixes.X, lib, "modules")
}

func (c *Config) resolveSELinux(env Environment) error {
	available := c.Tools.Chcon != "" && c.Tools.SELinuxEnabled != ""

	switch c.SELinux.Mode {
	case SELinuxYes:
		if !available {
			return errors.New(errors.ErrConfigValid,
				"selinux mode \"yes\" requested but SELinux is not available on this system")
		}
		c.Host.SELinuxEnabled = true
	case SELinuxNo:
		c.Host.SELinuxEnabled = false
	default:
		c.Host.SELinuxEnabled = false
		if available && env.Runner != nil {
			res, err := env.Runner.Run(c.Tools.SELinuxEnabled)
			c.Host.SELinuxEnabled = err == nil && res.Success()
		}
	}
	if c.SELinux.ChconType == "" {
		c.SELinux.ChconType = "shlib_t"
	}
	return nil
}

// findTool keeps a configured path, then tries the search path and the
// extra system directories. Returns "" when the tool is absent.
func findTool(env Environment, configured, name string, extra []string) string {
	if configured != "" {
		return configured
	}
	if p, err := env.LookPath(name); err == nil {
		return p
	}
	for _, dir := range extra {
		candidate := path.Join(dir, name)
		info, err := env.FS.Stat(candidate)
		if err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0 {
			return candidate
		}
	}
	return ""
}
