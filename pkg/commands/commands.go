// Package commands provides the high-level operations behind the CLI.
//
// Each command is implemented in its own subdirectory:
//   - install/    - Install: classify, render, resolve, write and verify
//   - plan/       - Plan: everything Install decides, nothing it writes
//   - verify/     - Verify: check an existing installation
//   - showconfig/ - ShowConfig: the effective configuration as TOML
//   - internal/   - the shared preparation pipeline
//
// This file re-exports the command functions.
package commands

import (
	"github.com/arthur-debert/driverinstall/pkg/commands/install"
	"github.com/arthur-debert/driverinstall/pkg/commands/internal"
	"github.com/arthur-debert/driverinstall/pkg/commands/plan"
	"github.com/arthur-debert/driverinstall/pkg/commands/showconfig"
	"github.com/arthur-debert/driverinstall/pkg/commands/verify"
)

// Options are shared by every command.
type Options = internal.Options

// Install writes the package to the host and verifies it.
type InstallResult = install.InstallResult

func Install(opts Options) (*InstallResult, error) {
	return install.Install(opts)
}

// Plan shows what Install would do.
type PlanResult = plan.PlanResult

func Plan(opts Options) (*PlanResult, error) {
	return plan.Plan(opts)
}

// Verify checks an existing installation.
type VerifyResult = verify.VerifyResult

func Verify(opts Options) (*VerifyResult, error) {
	return verify.Verify(opts)
}

// ShowConfig renders the effective configuration.
func ShowConfig(opts Options) ([]byte, error) {
	return showconfig.ShowConfig(opts)
}
