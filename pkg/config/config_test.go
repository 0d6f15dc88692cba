package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withNoSystemConfig(t *testing.T) {
	t.Helper()
	orig := SystemConfigFile
	SystemConfigFile = filepath.Join(t.TempDir(), "absent.toml")
	t.Cleanup(func() { SystemConfigFile = orig })
}

func TestLoad_Defaults(t *testing.T) {
	withNoSystemConfig(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, DistributionAuto, cfg.Distribution)
	assert.Equal(t, "/usr", cfg.Prefixes.OpenGL)
	assert.Equal(t, "/usr", cfg.Prefixes.X)
	assert.Empty(t, cfg.Prefixes.KernelModule)
	assert.False(t, cfg.Install.OpenGLHeaders)
	assert.True(t, cfg.Install.Compat32)
	assert.Equal(t, SELinuxDefault, cfg.SELinux.Mode)
	assert.Equal(t, "shlib_t", cfg.SELinux.ChconType)
	assert.Contains(t, cfg.Tools.ExtraPath, "/usr/X11R6/bin")
	assert.Len(t, cfg.Tools.ExtraPath, 6)
}

func TestLoad_Layers(t *testing.T) {
	withNoSystemConfig(t)

	configFile := filepath.Join(t.TempDir(), "driverinstall.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
distribution = "ubuntu"

[prefixes]
opengl = "/opt/gl/"
x = "/usr/X11R6"

[tls]
force = "classic"
`), 0644))

	t.Setenv("DRIVERINSTALL_PREFIXES_X_MODULE", "/usr/lib/xorg/modules")
	t.Setenv("DRIVERINSTALL_INSTALL_OPENGL_HEADERS", "true")
	t.Setenv("DRIVERINSTALL_PREFIXES_X", "/usr/X11")

	cfg, err := Load(LoadOptions{
		ConfigFile: configFile,
		Overrides: map[string]interface{}{
			"prefixes.x": "/from/flag",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ubuntu", cfg.Distribution)
	assert.Equal(t, "/opt/gl", cfg.Prefixes.OpenGL, "trailing slash trimmed")
	assert.Equal(t, "/usr/lib/xorg/modules", cfg.Prefixes.XModule, "env with underscore key")
	assert.True(t, cfg.Install.OpenGLHeaders, "env bool decoded")
	assert.Equal(t, "/from/flag", cfg.Prefixes.X, "flags win over env and file")
	assert.Equal(t, ForceClassic, cfg.TLS.Force)
	assert.Equal(t, types.ABIClassic, cfg.ForcedABI(types.ArchNative))
	assert.Equal(t, types.ABINone, cfg.ForcedABI(types.ArchCompat32))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	withNoSystemConfig(t)

	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_Invalid(t *testing.T) {
	withNoSystemConfig(t)

	tests := []struct {
		name      string
		overrides map[string]interface{}
	}{
		{"bad tls override", map[string]interface{}{"tls.force": "modern"}},
		{"bad compat tls override", map[string]interface{}{"tls.force32": "old"}},
		{"bad distribution", map[string]interface{}{"distribution": "plan9"}},
		{"bad selinux mode", map[string]interface{}{"selinux.mode": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(LoadOptions{Overrides: tt.overrides})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "prefixes.compat32_root", envKey("DRIVERINSTALL_PREFIXES_COMPAT32_ROOT"))
	assert.Equal(t, "distribution", envKey("DRIVERINSTALL_DISTRIBUTION"))
	assert.Equal(t, "tls.force32", envKey("DRIVERINSTALL_TLS_FORCE32"))
}

func TestTrimTrailingSlashes(t *testing.T) {
	assert.Equal(t, "/usr", trimTrailingSlashes("/usr///"))
	assert.Equal(t, "/", trimTrailingSlashes("/"))
	assert.Equal(t, "", trimTrailingSlashes(""))
}

func TestInstallable(t *testing.T) {
	cfg := &Config{}

	assert.True(t, cfg.Installable(types.CategoryOpenGLLib))
	assert.False(t, cfg.Installable(types.CategoryOpenGLSymlink), "symlinks are not regular files")
	assert.False(t, cfg.Installable(types.CategoryOpenGLHeader))
	assert.False(t, cfg.Installable(types.CategoryKernelModuleSrc))
	assert.False(t, cfg.Installable(types.CategoryNone))

	cfg.Install.OpenGLHeaders = true
	cfg.Install.KernelModuleSource = true
	assert.True(t, cfg.Installable(types.CategoryOpenGLHeader))
	assert.True(t, cfg.Installable(types.CategoryKernelModuleSrc))
}

func TestCompat32Enabled(t *testing.T) {
	cfg := &Config{Install: Install{Compat32: true}}
	assert.False(t, cfg.Compat32Enabled(), "32-bit host")

	cfg.Host.Is64Bit = true
	assert.True(t, cfg.Compat32Enabled())

	cfg.Install.Compat32 = false
	assert.False(t, cfg.Compat32Enabled())
}

func TestToTOML(t *testing.T) {
	withNoSystemConfig(t)
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	cfg.Host.Distro = types.DistributionGentoo

	data, err := cfg.ToTOML()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "[prefixes]")
	assert.Regexp(t, `opengl = ['"]/usr['"]`, out)
	assert.Regexp(t, `distribution = ['"]gentoo['"]`, out)
}
