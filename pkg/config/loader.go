package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes configuration environment variables, e.g.
// DRIVERINSTALL_PREFIXES_OPENGL or DRIVERINSTALL_TLS_FORCE.
const EnvPrefix = "DRIVERINSTALL_"

// SystemConfigFile is loaded when present and no explicit file is given.
var SystemConfigFile = "/etc/driverinstall.toml"

// LoadOptions selects the optional configuration layers.
type LoadOptions struct {
	// ConfigFile replaces SystemConfigFile and must exist.
	ConfigFile string
	// Overrides are dotted keys ("prefixes.opengl") applied last.
	Overrides map[string]interface{}
}

// Load builds the configuration from every layer and validates it. Host
// facts are not filled in; call Resolve for that.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. System or explicit config file
	path := SystemConfigFile
	if opts.ConfigFile != "" {
		path = opts.ConfigFile
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", path)
		}
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps DRIVERINSTALL_SECTION_SOME_KEY to section.some_key. Section
// names never contain underscores; keys may.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func normalize(cfg *Config) {
	p := &cfg.Prefixes
	for _, prefix := range []*string{
		&p.OpenGL, &p.X, &p.XModule, &p.KernelModule,
		&p.Documentation, &p.Installer, &p.Utility, &p.Compat32Root,
	} {
		*prefix = trimTrailingSlashes(*prefix)
	}

	cfg.Distribution = strings.ToLower(strings.TrimSpace(cfg.Distribution))
	if cfg.Distribution == "" {
		cfg.Distribution = DistributionAuto
	}
	cfg.TLS.Force = strings.ToLower(strings.TrimSpace(cfg.TLS.Force))
	cfg.TLS.Force32 = strings.ToLower(strings.TrimSpace(cfg.TLS.Force32))
	cfg.SELinux.Mode = strings.ToLower(strings.TrimSpace(cfg.SELinux.Mode))
	if cfg.SELinux.Mode == "" {
		cfg.SELinux.Mode = SELinuxDefault
	}
}

// trimTrailingSlashes keeps a lone "/" so the filesystem root stays
// expressible.
func trimTrailingSlashes(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" && p != "" {
		return "/"
	}
	return trimmed
}
