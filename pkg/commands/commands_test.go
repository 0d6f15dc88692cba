package commands_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/driverinstall/pkg/commands"
	"github.com/arthur-debert/driverinstall/pkg/config"
	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/runner"
	"github.com/arthur-debert/driverinstall/pkg/testutil"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/arthur-debert/driverinstall/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `Test Accelerated Graphics Driver
1.0-9631 (test build)
# libraries
libGL.so.1 0755 OPENGL_LIB NATIVE lib
libGL.so 0000 OPENGL_SYMLINK NATIVE lib libGL.so.1
classic/libnvidia-tls.so.1 0755 TLS_LIB NATIVE CLASSIC lib
new/libnvidia-tls.so.1 0755 TLS_LIB NATIVE NEW lib/tls
libGL.la 0644 LIBGL_LA NATIVE lib
gl.h 0644 OPENGL_HEADER include
README 0644 DOCUMENTATION share/doc/NVIDIA
`

type testEnv struct {
	pkgDir  string
	root    string
	tempDir string
	runner  *testutil.FakeRunner
	ui      *testutil.RecordingUI
	// resolved maps a library name to what ldd reports for it.
	resolved map[string]string
	tlsExit  int
}

func writePackageFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	saved := config.SystemConfigFile
	config.SystemConfigFile = filepath.Join(t.TempDir(), "absent.toml")
	t.Cleanup(func() { config.SystemConfigFile = saved })

	env := &testEnv{
		pkgDir:   t.TempDir(),
		root:     t.TempDir(),
		tempDir:  t.TempDir(),
		ui:       testutil.NewRecordingUI(),
		resolved: map[string]string{},
	}

	writePackageFile(t, env.pkgDir, ".manifest", testManifest)
	writePackageFile(t, env.pkgDir, "libGL.so.1", "libGL")
	writePackageFile(t, env.pkgDir, "classic/libnvidia-tls.so.1", "classic tls")
	writePackageFile(t, env.pkgDir, "new/libnvidia-tls.so.1", "new tls")
	writePackageFile(t, env.pkgDir, "libGL.la", "libdir='__LIBGL_PATH__'\n# __GENERATED_BY__\n")
	writePackageFile(t, env.pkgDir, "gl.h", "/* gl */")
	writePackageFile(t, env.pkgDir, "README", "readme")
	writePackageFile(t, env.pkgDir, "tls_test", "probe")
	writePackageFile(t, env.pkgDir, "tls_test_dso.so", "probe dso")
	writePackageFile(t, env.pkgDir, "rtld_test", "rtld probe")

	env.resolved["libGL.so.1"] = env.dest("lib/libGL.so.1")
	env.resolved["libnvidia-tls.so.1"] = env.dest("lib/tls/libnvidia-tls.so.1")

	env.runner = testutil.NewFakeRunner()
	env.runner.Handler = func(name string, args []string) (runner.Result, error) {
		base := filepath.Base(name)
		switch {
		case strings.HasPrefix(base, "tls_test"):
			return runner.Result{ExitStatus: env.tlsExit}, nil
		case base == "ldd":
			var b strings.Builder
			for lib, path := range env.resolved {
				fmt.Fprintf(&b, "\t%s => %s (0x0000)\n", lib, path)
			}
			return runner.Result{Output: b.String()}, nil
		}
		return runner.Result{}, fmt.Errorf("exec: %q: not found", name)
	}
	return env
}

func (e *testEnv) dest(rel string) string {
	return filepath.Join(e.root, "usr", rel)
}

func (e *testEnv) options() commands.Options {
	usr := filepath.Join(e.root, "usr")
	return commands.Options{
		ManifestPath: filepath.Join(e.pkgDir, ".manifest"),
		Overrides: map[string]interface{}{
			"distribution":           "other",
			"prefixes.opengl":        usr,
			"prefixes.x":             usr,
			"prefixes.documentation": usr,
			"prefixes.installer":     usr,
			"prefixes.utility":       usr,
			"selinux.mode":           config.SELinuxNo,
			"tools.ldd":              "/usr/bin/ldd",
		},
		Format: ui.FormatText,
		UI:     e.ui,
		Env: config.Environment{
			Runner:      e.runner,
			LookPath:    func(string) (string, error) { return "", os.ErrNotExist },
			Arch:        "amd64",
			XDGDataDirs: []string{},
		},
		TempDir: e.tempDir,
	}
}

func TestInstall_EndToEnd(t *testing.T) {
	env := newTestEnv(t)

	result, err := commands.Install(env.options())
	require.NoError(t, err)

	native, ok := result.Selections.For(types.ArchNative)
	require.True(t, ok)
	assert.Equal(t, types.ABINew, native.ABI)

	content, err := os.ReadFile(env.dest("lib/libGL.so.1"))
	require.NoError(t, err)
	assert.Equal(t, "libGL", string(content))

	info, err := os.Stat(env.dest("lib/libGL.so.1"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	target, err := os.Readlink(env.dest("lib/libGL.so"))
	require.NoError(t, err)
	assert.Equal(t, "libGL.so.1", target)

	tls, err := os.ReadFile(env.dest("lib/tls/libnvidia-tls.so.1"))
	require.NoError(t, err)
	assert.Equal(t, "new tls", string(tls))
	assert.NoFileExists(t, env.dest("lib/libnvidia-tls.so.1"), "classic build excluded")

	assert.NoFileExists(t, env.dest("include/GL/gl.h"), "headers not requested")
	assert.FileExists(t, env.dest("share/doc/NVIDIA/README"))

	la, err := os.ReadFile(env.dest("lib/libGL.la"))
	require.NoError(t, err)
	assert.Contains(t, string(la), "libdir='"+env.dest("lib")+"'")
	assert.Contains(t, string(la), "# driverinstall: ")
	assert.NotContains(t, string(la), "__")

	assert.Equal(t, 5, result.Installed)
	assert.True(t, result.Files.Clean(), "file issues: %v", result.Files.Lines())
	assert.True(t, result.Runtime.Clean(), "runtime issues: %v", result.Runtime.Lines())
	assert.True(t, env.ui.HasMessage(testutil.LevelLog, "Installing new TLS OpenGL libraries."))

	leftovers, err := os.ReadDir(env.tempDir)
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary files removed")
}

func TestInstall_ForcedClassicSkipsProbe(t *testing.T) {
	env := newTestEnv(t)
	env.resolved["libnvidia-tls.so.1"] = "not found"
	opts := env.options()
	opts.Overrides["tls.force"] = config.ForceClassic

	result, err := commands.Install(opts)
	require.NoError(t, err)

	assert.Empty(t, env.runner.CallsTo("tls_test"))
	for _, c := range env.runner.Calls {
		assert.False(t, strings.HasPrefix(filepath.Base(c.Name), "tls_test"), "no probe spawned")
	}
	assert.FileExists(t, env.dest("lib/libnvidia-tls.so.1"))
	assert.NoFileExists(t, env.dest("lib/tls/libnvidia-tls.so.1"))
	assert.True(t, result.Runtime.Clean(), "forced TLS libraries are not linkage checked")
}

func TestInstall_LinkageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.resolved["libGL.so.1"] = "not found"

	result, err := commands.Install(env.options())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLinkage))
	require.NotNil(t, result)
	assert.True(t, result.Runtime.Failed)
	assert.FileExists(t, env.dest("lib/libGL.so.1"), "files stay installed")
}

func TestInstall_MissingManifest(t *testing.T) {
	env := newTestEnv(t)
	opts := env.options()
	opts.ManifestPath = filepath.Join(env.pkgDir, "nope", ".manifest")

	_, err := commands.Install(opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
}

func TestPlan_WritesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.tlsExit = 1

	result, err := commands.Plan(env.options())
	require.NoError(t, err)

	assert.Equal(t, "Test Accelerated Graphics Driver", result.Description)
	assert.Equal(t, "1.0-9631", result.Version)
	native, ok := result.Selections.For(types.ArchNative)
	require.True(t, ok)
	assert.Equal(t, types.ABIClassic, native.ABI)

	byDest := map[string]string{}
	for _, s := range result.Steps {
		byDest[s.Destination] = s.Action
	}
	assert.Equal(t, "copy", byDest[env.dest("lib/libnvidia-tls.so.1")])
	assert.Equal(t, "symlink", byDest[env.dest("lib/libGL.so")])
	assert.Equal(t, "skip", byDest[env.dest("include/GL/gl.h")])
	assert.NotContains(t, byDest, env.dest("lib/tls/libnvidia-tls.so.1"))
	assert.Equal(t, 2, result.Excluded, "new TLS build and the libGL.la template")

	header, rows := result.Table()
	assert.Len(t, header, 6)
	assert.Len(t, rows, len(result.Steps))

	_, err = os.Stat(filepath.Join(env.root, "usr"))
	assert.True(t, os.IsNotExist(err), "nothing installed")
}

func TestVerify_ReportsMissingFile(t *testing.T) {
	env := newTestEnv(t)
	_, err := commands.Install(env.options())
	require.NoError(t, err)

	require.NoError(t, os.Remove(env.dest("share/doc/NVIDIA/README")))

	result, err := commands.Verify(env.options())
	require.NoError(t, err)
	require.Len(t, result.Files.Issues, 1)
	assert.Equal(t, env.dest("share/doc/NVIDIA/README"), result.Files.Issues[0].Path)
	assert.False(t, result.Files.Failed)
	assert.True(t, result.Runtime.Clean())
}

func TestShowConfig(t *testing.T) {
	env := newTestEnv(t)

	out, err := commands.ShowConfig(env.options())
	require.NoError(t, err)
	assert.Contains(t, string(out), filepath.Join(env.root, "usr"))
	assert.Regexp(t, `is_64bit\s*=\s*true`, string(out))
}
