package testutil

import (
	"errors"
	"testing"

	"github.com/arthur-debert/driverinstall/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingUI(t *testing.T) {
	u := NewRecordingUI()
	u.Log("hello %s", "world")
	u.Warn("careful")
	u.Error("broken")
	u.Progress(0.5, "half")

	assert.Equal(t, []string{"careful"}, u.Warnings())
	assert.True(t, u.HasMessage(LevelLog, "world"))
	assert.False(t, u.HasMessage(LevelError, "world"))
	assert.Equal(t, []ProgressEvent{{Fraction: 0.5, Label: "half"}}, u.ProgressEvents)
}

func TestFakeRunner(t *testing.T) {
	f := NewFakeRunner().
		On("ldd", 0, "libGL.so.1 => /usr/lib/libGL.so.1").
		OnError("chcon", errors.New("boom"))

	res, err := f.Run("/usr/bin/ldd", "/tmp/rtld")
	require.NoError(t, err)
	assert.Equal(t, "libGL.so.1 => /usr/lib/libGL.so.1", res.Output)

	_, err = f.Run("chcon", "-t", "shlib_t", "x")
	assert.Error(t, err)

	_, err = f.Run("unknown")
	assert.Error(t, err)

	assert.Len(t, f.Calls, 3)
	assert.Equal(t, []string{"/tmp/rtld"}, f.CallsTo("ldd")[0].Args)
}

func TestFakeRunner_Handler(t *testing.T) {
	f := NewFakeRunner()
	f.Handler = func(name string, args []string) (runner.Result, error) {
		return runner.Result{ExitStatus: len(args)}, nil
	}

	res, err := f.Run("probe", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, res.ExitStatus)
}

func TestNewTestFS(t *testing.T) {
	fs, mem := NewTestFS()
	WriteMemFile(t, mem, "/etc/debian_version", "12.0\n")

	content, err := fs.ReadFile("/etc/debian_version")
	require.NoError(t, err)
	assert.Equal(t, "12.0\n", string(content))
}
