package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"term", FormatTerminal, false},
		{"TERMINAL", FormatTerminal, false},
		{"text", FormatText, false},
		{"plain", FormatText, false},
		{"json", FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.want != FormatAuto {
				roundTrip, err := ParseFormat(got.String())
				require.NoError(t, err)
				assert.Equal(t, got, roundTrip)
			}
		})
	}
}

func TestDetectFormat_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, FormatText, DetectFormat(os.Stdout))
}

func TestDetectFormat_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, FormatText, DetectFormat(f))
}

func TestNew_AutoOnBufferIsText(t *testing.T) {
	var buf bytes.Buffer
	u := New(FormatAuto, &buf)
	_, ok := u.(*LogUI)
	assert.True(t, ok)

	u = New(FormatTerminal, &buf)
	_, ok = u.(*TerminalUI)
	assert.True(t, ok)
}

func TestLogUI(t *testing.T) {
	var buf bytes.Buffer
	u := NewLogUI(&buf)

	u.Log("installing %d files", 3)
	u.Warn("missing %s", "payload")
	u.Error("cannot open %s", "/tmp/x")
	u.Progress(0.5, "/usr/lib/libGL.so.1")

	assert.Equal(t,
		"installing 3 files\nWARNING: missing payload\nERROR: cannot open /tmp/x\n",
		buf.String(), "progress is not printed in text mode")
}

func TestTerminalUI(t *testing.T) {
	var buf bytes.Buffer
	u := NewTerminalUI(&buf)

	u.Progress(0.5, "libGL.so.1")
	require.NotNil(t, u.bar)
	assert.True(t, u.bar.IsActive)
	assert.Equal(t, 50, u.bar.Current)

	u.Warn("symlink mismatch")
	require.NotNil(t, u.bar, "bar is redrawn after a message")
	assert.Equal(t, 50, u.bar.Current)
	assert.Equal(t, "libGL.so.1", u.bar.Title)

	u.Progress(1, "done")
	assert.Nil(t, u.bar)

	out := buf.String()
	assert.Contains(t, out, "libGL.so.1")
	assert.Contains(t, out, "symlink mismatch")
	assert.Contains(t, out, "done")
}

func TestTerminalUI_MessagesWithoutBar(t *testing.T) {
	var buf bytes.Buffer
	u := NewTerminalUI(&buf)

	u.Log("installing %d files", 2)
	assert.Nil(t, u.bar)
	assert.Contains(t, buf.String(), "installing 2 files\n")
}

func TestTerminalUI_NewPhaseStartsNewBar(t *testing.T) {
	var buf bytes.Buffer
	u := NewTerminalUI(&buf)

	u.Progress(1, "copy done")
	assert.Nil(t, u.bar)

	u.Progress(0.25, "/usr/lib/libGL.so.1")
	require.NotNil(t, u.bar)
	assert.Equal(t, 25, u.bar.Current)
	u.stopBar(false)
	assert.Nil(t, u.bar)
}

func TestToPercent(t *testing.T) {
	assert.Equal(t, 0, toPercent(-1))
	assert.Equal(t, 25, toPercent(0.25))
	assert.Equal(t, 100, toPercent(1))
	assert.Equal(t, 100, toPercent(2))
}

func TestRenderTable_Text(t *testing.T) {
	out, err := RenderTable(FormatText, []string{"CATEGORY", "DESTINATION"}, [][]string{
		{"OPENGL_LIB", "/usr/lib/libGL.so.1.0"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "/usr/lib/libGL.so.1.0")
}

func TestRenderSummary(t *testing.T) {
	text := RenderSummary(FormatText, "Verification passed", []string{"2 warnings"}, false)
	assert.Equal(t, "Verification passed\n  2 warnings\n", text)

	boxed := RenderSummary(FormatTerminal, "Verification failed", []string{"1 error"}, true)
	assert.Contains(t, boxed, "Verification failed")
	assert.Contains(t, boxed, "1 error")
}
