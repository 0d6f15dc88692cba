package verify

import (
	"github.com/arthur-debert/driverinstall/pkg/commands/internal"
	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	checks "github.com/arthur-debert/driverinstall/pkg/verify"
)

// VerifyOptions defines the options for the Verify command.
type VerifyOptions = internal.Options

// VerifyResult holds the findings of both checks.
type VerifyResult struct {
	Files   checks.Report
	Runtime checks.Report
}

// Verify checks an existing installation of the package against the
// destinations the current configuration resolves to.
func Verify(opts VerifyOptions) (*VerifyResult, error) {
	log := logging.GetLogger("commands.verify")
	log.Debug().Str("command", "Verify").Msg("Executing command")

	p, err := internal.Prepare(opts)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result := &VerifyResult{}
	result.Files, result.Runtime = p.Verify()

	log.Info().
		Str("command", "Verify").
		Bool("failed", result.Runtime.Failed).
		Msg("Command finished")

	if result.Runtime.Failed {
		return result, errors.New(errors.ErrLinkage, "the runtime configuration check failed")
	}
	return result, nil
}
