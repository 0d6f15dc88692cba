package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/driverinstall/pkg/config"
	"github.com/arthur-debert/driverinstall/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	saved := config.SystemConfigFile
	config.SystemConfigFile = filepath.Join(t.TempDir(), "absent.toml")
	t.Cleanup(func() { config.SystemConfigFile = saved })

	var out bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "driverinstall version")
	assert.Contains(t, out, "Commit:")
}

func TestRootCmd_NoSubcommand(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}

func TestConfigShow_AppliesFlags(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "driverinstall.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("distribution = \"suse\"\n[selinux]\nmode = \"no\"\n"), 0644))

	out, err := execute(t, "config", "show", "--config", cfgFile,
		"--opengl-prefix", "/opt/gl/", "--no-compat32", "--format", "text")
	require.NoError(t, err)
	assert.Regexp(t, `opengl\s*=\s*['"]/opt/gl['"]`, out)
	assert.Regexp(t, `compat32\s*=\s*false`, out)
	assert.Regexp(t, `distribution\s*=\s*['"]suse['"]`, out)
}

func TestConfigShow_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "config", "show", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestInstallCmd_BadFormat(t *testing.T) {
	_, err := execute(t, "install", "--format", "fancy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --format")
}

func TestInstallCmd_MissingManifest(t *testing.T) {
	_, err := execute(t, "install", "--manifest", filepath.Join(t.TempDir(), ".manifest"),
		"--format", "text", "--force-tls", "classic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "installation failed")
}

func TestGlobalFlags_Options(t *testing.T) {
	rootCmd := NewRootCmd()
	planCmd, _, err := rootCmd.Find([]string{"plan"})
	require.NoError(t, err)

	require.NoError(t, planCmd.ParseFlags([]string{
		"--force-tls", "new",
		"--force-tls32", "classic",
		"--opengl-headers",
		"--x-prefix", "/usr/X11R6",
		"--format", "term",
	}))

	flags := &globalFlags{}
	for name, dst := range map[string]*string{
		"force-tls":   &flags.forceTLS,
		"force-tls32": &flags.forceTLS32,
		"x-prefix":    &flags.xPrefix,
		"format":      &flags.format,
		"manifest":    &flags.manifestPath,
	} {
		v, err := planCmd.Flags().GetString(name)
		require.NoError(t, err)
		*dst = v
	}
	flags.openGLHeaders, err = planCmd.Flags().GetBool("opengl-headers")
	require.NoError(t, err)

	opts, err := flags.options(planCmd)
	require.NoError(t, err)

	assert.Equal(t, ui.FormatTerminal, opts.Format)
	assert.Equal(t, ".manifest", opts.ManifestPath)
	assert.Equal(t, map[string]interface{}{
		"tls.force":              "new",
		"tls.force32":            "classic",
		"install.opengl_headers": true,
		"prefixes.x":             "/usr/X11R6",
	}, opts.Overrides)
}

func TestCompletionCmd(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "driverinstall")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestManCmd(t *testing.T) {
	out, err := execute(t, "man")
	require.NoError(t, err)
	assert.Contains(t, out, "DRIVERINSTALL")
}
