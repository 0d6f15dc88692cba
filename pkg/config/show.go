package config

import (
	"github.com/arthur-debert/driverinstall/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// ToTOML renders the effective configuration, including resolved
// host facts, as TOML.
func (c *Config) ToTOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return data, nil
}
