// Package ui is the user-facing message channel of the installer: log
// lines, warnings, errors and a progress indicator.
package ui

import (
	"io"
	"os"
)

// UI receives user-facing messages from the classifier, installer and
// verifier. Implementations must not fail.
type UI interface {
	Log(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	// Progress reports fraction (0..1) of the current phase, with label
	// naming the item being processed.
	Progress(fraction float64, label string)
}

// ResolveFormat turns FormatAuto into a concrete format for out: out is
// inspected when it is a file, anything else gets plain text.
func ResolveFormat(format Format, out io.Writer) Format {
	if format != FormatAuto {
		return format
	}
	if file, ok := out.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatText
}

// New returns the UI for format writing to out.
func New(format Format, out io.Writer) UI {
	if ResolveFormat(format, out) == FormatTerminal {
		return NewTerminalUI(out)
	}
	return NewLogUI(out)
}
