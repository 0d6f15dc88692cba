package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// TerminalUI renders pterm-prefixed messages and a pterm progress bar.
type TerminalUI struct {
	out    io.Writer
	logger zerolog.Logger

	// bar is non-nil between the first Progress call of a phase and the
	// call that reaches 100%.
	bar *pterm.ProgressbarPrinter
}

// NewTerminalUI creates a styled UI writing to out.
func NewTerminalUI(out io.Writer) *TerminalUI {
	return &TerminalUI{
		out:    out,
		logger: logging.GetLogger("ui"),
	}
}

func (u *TerminalUI) Log(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	u.logger.Info().Msg(msg)
	u.println(fmt.Sprintf("%s %s", pterm.Info.Prefix.Text, msg))
}

func (u *TerminalUI) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	u.logger.Warn().Msg(msg)
	u.println(fmt.Sprintf("%s %s", pterm.Warning.Prefix.Text, pterm.Warning.MessageStyle.Sprint(msg)))
}

func (u *TerminalUI) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	u.logger.Error().Msg(msg)
	u.println(fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(msg)))
}

func (u *TerminalUI) Progress(fraction float64, label string) {
	percent := toPercent(fraction)
	if u.bar == nil && !u.startBar(label, 0) {
		return
	}

	u.bar.UpdateTitle(label)
	if delta := percent - u.bar.Current; delta > 0 {
		u.bar.Add(delta)
	}
	if percent == 100 {
		u.stopBar(false)
	}
}

func (u *TerminalUI) startBar(title string, current int) bool {
	bar, err := pterm.DefaultProgressbar.
		WithTotal(100).
		WithTitle(title).
		WithShowElapsedTime(false).
		WithWriter(u.out).
		Start()
	if err != nil {
		u.logger.Debug().Err(err).Msg("cannot start progress bar")
		return false
	}
	if current > 0 {
		bar.Add(current)
	}
	u.bar = bar
	return true
}

// stopBar ends the active bar. Add stops the bar itself when it reaches
// its total, so Stop is only called on a still-active bar.
func (u *TerminalUI) stopBar(remove bool) {
	if u.bar == nil {
		return
	}
	if u.bar.IsActive {
		u.bar.RemoveWhenDone = remove
		_, _ = u.bar.Stop()
	}
	u.bar = nil
}

// println clears an active bar, prints line and redraws the bar below it.
func (u *TerminalUI) println(line string) {
	if u.bar == nil {
		_, _ = fmt.Fprintln(u.out, line)
		return
	}

	title, current := u.bar.Title, u.bar.Current
	u.stopBar(true)
	_, _ = fmt.Fprintln(u.out, line)
	u.startBar(title, current)
}
