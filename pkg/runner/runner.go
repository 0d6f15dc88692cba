// Package runner executes host tools (ldd, chcon, pkg-config, probe
// programs) and offers the small text helpers used to read their output.
package runner

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"

	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/rs/zerolog"
)

// Result is the outcome of a process that was started.
type Result struct {
	ExitStatus int
	Output     string
}

// Success reports whether the process exited with status 0.
func (r Result) Success() bool {
	return r.ExitStatus == 0
}

// Runner runs a process to completion. The error is non-nil only when the
// process could not be started; a non-zero exit is reported in Result.
type Runner interface {
	Run(name string, args ...string) (Result, error)
}

// ExecRunner runs processes on the host with os/exec.
type ExecRunner struct {
	logger zerolog.Logger
}

// New creates a runner for host processes.
func New() *ExecRunner {
	return &ExecRunner{logger: logging.GetLogger("runner")}
}

// Run executes name with args and captures stdout and stderr together.
// Trailing newlines are trimmed from the output.
func (r *ExecRunner) Run(name string, args ...string) (Result, error) {
	logging.LogCommand(name, args)

	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	result := Result{Output: strings.TrimRight(out.String(), "\n")}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			r.logger.Debug().Err(err).Str("command", name).Msg("Command could not be started")
			return result, err
		}
		result.ExitStatus = exitErr.ExitCode()
		if result.ExitStatus < 0 {
			// killed by a signal
			result.ExitStatus = 1
		}
	}

	r.logger.Debug().
		Str("command", name).
		Int("status", result.ExitStatus).
		Int("outputBytes", len(result.Output)).
		Msg("Command finished")
	if result.Output != "" {
		r.logger.Trace().Str("output", result.Output).Msg("Command output")
	}
	return result, nil
}
