package ui

import (
	"fmt"
	"io"
	"math"

	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/rs/zerolog"
)

// LogUI prints plain lines to a writer and mirrors every message to the
// structured log.
type LogUI struct {
	out    io.Writer
	logger zerolog.Logger

	lastPercent int
}

// NewLogUI creates a plain-text UI writing to out.
func NewLogUI(out io.Writer) *LogUI {
	return &LogUI{
		out:         out,
		logger:      logging.GetLogger("ui"),
		lastPercent: -1,
	}
}

func (u *LogUI) Log(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	u.logger.Info().Msg(msg)
	_, _ = fmt.Fprintln(u.out, msg)
}

func (u *LogUI) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	u.logger.Warn().Msg(msg)
	_, _ = fmt.Fprintf(u.out, "WARNING: %s\n", msg)
}

func (u *LogUI) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	u.logger.Error().Msg(msg)
	_, _ = fmt.Fprintf(u.out, "ERROR: %s\n", msg)
}

// Progress only goes to the log; printing every step would flood
// redirected output.
func (u *LogUI) Progress(fraction float64, label string) {
	percent := toPercent(fraction)
	if percent == u.lastPercent && percent != 100 {
		return
	}
	u.lastPercent = percent
	u.logger.Debug().Int("percent", percent).Str("item", label).Msg("Progress")
}

func toPercent(fraction float64) int {
	if math.IsNaN(fraction) || fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 100
	}
	return int(fraction * 100)
}
