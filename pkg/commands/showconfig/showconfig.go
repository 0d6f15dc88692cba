package showconfig

import (
	"github.com/arthur-debert/driverinstall/pkg/commands/internal"
	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/logging"
)

// ShowConfigOptions defines the options for the ShowConfig command.
type ShowConfigOptions = internal.Options

// ShowConfig returns the effective configuration, host facts included,
// as TOML.
func ShowConfig(opts ShowConfigOptions) ([]byte, error) {
	log := logging.GetLogger("commands.showconfig")
	log.Debug().Str("command", "ShowConfig").Msg("Executing command")

	cfg, err := internal.LoadConfig(&opts)
	if err != nil {
		return nil, err
	}
	out, err := cfg.ToTOML()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
