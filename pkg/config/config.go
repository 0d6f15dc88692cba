package config

import (
	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/types"
)

const (
	// DistributionAuto asks Resolve to detect the distribution.
	DistributionAuto = "auto"

	// DebianCompat32Root is where Debian keeps 32-bit compatibility
	// libraries on 64-bit hosts.
	DebianCompat32Root = "/emul/ia32-linux"

	ForceClassic = "classic"
	ForceNew     = "new"

	SELinuxDefault = "default"
	SELinuxYes     = "yes"
	SELinuxNo      = "no"
)

// Config is the effective installer configuration.
type Config struct {
	Distribution string   `koanf:"distribution" toml:"distribution"`
	Prefixes     Prefixes `koanf:"prefixes" toml:"prefixes"`
	Install      Install  `koanf:"install" toml:"install"`
	TLS          TLS      `koanf:"tls" toml:"tls"`
	SELinux      SELinux  `koanf:"selinux" toml:"selinux"`
	Tools        Tools    `koanf:"tools" toml:"tools"`

	// Host holds facts filled in by Resolve.
	Host Host `koanf:"-" toml:"host"`
}

// Prefixes are the installation roots per file family.
type Prefixes struct {
	OpenGL        string `koanf:"opengl" toml:"opengl"`
	X             string `koanf:"x" toml:"x"`
	XModule       string `koanf:"x_module" toml:"x_module"`
	KernelModule  string `koanf:"kernel_module" toml:"kernel_module"`
	Documentation string `koanf:"documentation" toml:"documentation"`
	Installer     string `koanf:"installer" toml:"installer"`
	Utility       string `koanf:"utility" toml:"utility"`
	Compat32Root  string `koanf:"compat32_root" toml:"compat32_root"`
}

// Install selects optional file families.
type Install struct {
	OpenGLHeaders      bool `koanf:"opengl_headers" toml:"opengl_headers"`
	KernelModuleSource bool `koanf:"kernel_module_source" toml:"kernel_module_source"`
	Compat32           bool `koanf:"compat32" toml:"compat32"`
}

// TLS holds the operator overrides of the TLS ABI probe.
type TLS struct {
	Force   string `koanf:"force" toml:"force"`
	Force32 string `koanf:"force32" toml:"force32"`
}

// SELinux controls security-context handling of probe libraries.
type SELinux struct {
	Mode      string `koanf:"mode" toml:"mode"`
	ChconType string `koanf:"chcon_type" toml:"chcon_type"`
}

// Tools are absolute paths of host programs. Empty entries are discovered
// by Resolve; a tool that cannot be found stays empty.
type Tools struct {
	Ldd            string   `koanf:"ldd" toml:"ldd"`
	Chcon          string   `koanf:"chcon" toml:"chcon"`
	SELinuxEnabled string   `koanf:"selinuxenabled" toml:"selinuxenabled"`
	PkgConfig      string   `koanf:"pkg_config" toml:"pkg_config"`
	ExtraPath      []string `koanf:"extra_path" toml:"extra_path"`
}

// Host describes the machine being installed to.
type Host struct {
	Distro         types.Distribution `toml:"distribution"`
	Is64Bit        bool               `toml:"is_64bit"`
	SELinuxEnabled bool               `toml:"selinux_enabled"`
	XDGDataDirs    []string           `toml:"xdg_data_dirs,omitempty"`
}

// ParseForce maps a TLS override to an ABI class. The empty string means
// no override and returns ABINone.
func ParseForce(value string) (types.ABIClass, error) {
	switch value {
	case "":
		return types.ABINone, nil
	case ForceClassic:
		return types.ABIClassic, nil
	case ForceNew:
		return types.ABINew, nil
	}
	return types.ABINone, errors.Newf(errors.ErrConfigValid,
		"invalid TLS override %q (expected %q or %q)", value, ForceClassic, ForceNew)
}

// ForcedABI returns the operator override for arch, or ABINone.
func (c *Config) ForcedABI(arch types.ArchClass) types.ABIClass {
	value := c.TLS.Force
	if arch == types.ArchCompat32 {
		value = c.TLS.Force32
	}
	abi, err := ParseForce(value)
	if err != nil {
		return types.ABINone
	}
	return abi
}

// Compat32Enabled reports whether 32-bit compatibility files are wanted
// and possible on this host.
func (c *Config) Compat32Enabled() bool {
	return c.Install.Compat32 && c.Host.Is64Bit
}

// Installable reports whether entries of category are regular files that
// this configuration installs.
func (c *Config) Installable(category types.Category) bool {
	if !category.Caps().Installable {
		return false
	}
	switch category {
	case types.CategoryOpenGLHeader:
		return c.Install.OpenGLHeaders
	case types.CategoryKernelModuleSrc:
		return c.Install.KernelModuleSource
	}
	return true
}

// Validate checks values that cannot be repaired by defaults.
func (c *Config) Validate() error {
	if _, err := ParseForce(c.TLS.Force); err != nil {
		return err
	}
	if _, err := ParseForce(c.TLS.Force32); err != nil {
		return err
	}

	if c.Distribution != DistributionAuto {
		if _, ok := types.ParseDistribution(c.Distribution); !ok {
			return errors.Newf(errors.ErrConfigValid, "unknown distribution %q", c.Distribution)
		}
	}

	switch c.SELinux.Mode {
	case SELinuxDefault, SELinuxYes, SELinuxNo:
	default:
		return errors.Newf(errors.ErrConfigValid, "invalid selinux mode %q", c.SELinux.Mode)
	}
	return nil
}
