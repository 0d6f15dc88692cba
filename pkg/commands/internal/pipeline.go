package internal

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/driverinstall/internal/version"
	"github.com/arthur-debert/driverinstall/pkg/classifier"
	"github.com/arthur-debert/driverinstall/pkg/config"
	"github.com/arthur-debert/driverinstall/pkg/filesystem"
	"github.com/arthur-debert/driverinstall/pkg/installer"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/manifest"
	"github.com/arthur-debert/driverinstall/pkg/payload"
	"github.com/arthur-debert/driverinstall/pkg/resolver"
	"github.com/arthur-debert/driverinstall/pkg/runner"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/arthur-debert/driverinstall/pkg/ui"
	"github.com/arthur-debert/driverinstall/pkg/verify"
	"github.com/rs/zerolog"
)

// Options are shared by every command that works on a package.
type Options struct {
	// ManifestPath is the package manifest; empty means ./.manifest.
	ManifestPath string
	// ConfigFile replaces the system configuration file.
	ConfigFile string
	// Overrides are dotted configuration keys set from the command line.
	Overrides map[string]interface{}
	// Format selects the output rendering.
	Format ui.Format
	// Out receives user-facing output; nil means stdout.
	Out io.Writer
	// UI replaces the UI built from Format and Out.
	UI ui.UI
	// Env describes the host. Zero fields inspect the running system.
	Env config.Environment
	// TempDir receives probe programs and rendered templates.
	TempDir string
}

// Pipeline is a package taken through classification, template rendering
// and destination resolution, ready to install or verify.
type Pipeline struct {
	Config     *config.Config
	Package    *types.Package
	Selections types.Selections
	Payloads   payload.Source
	FS         types.FS
	Runner     runner.Runner
	UI         ui.UI
	Format     ui.Format
	Out        io.Writer
	TempDir    string

	temps  *installer.TempFiles
	logger zerolog.Logger
}

// LoadConfig builds and resolves the configuration for opts.
func LoadConfig(opts *Options) (*config.Config, error) {
	if opts.Env.FS == nil {
		opts.Env.FS = filesystem.NewOS()
	}
	if opts.Env.Runner == nil {
		opts.Env.Runner = runner.New()
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.ConfigFile,
		Overrides:  opts.Overrides,
	})
	if err != nil {
		return nil, err
	}
	if err := cfg.Resolve(opts.Env); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Prepare loads configuration and manifest, selects the ABI variant of
// each architecture class, renders templates and resolves destinations.
// The caller must Close the pipeline to remove temporary files.
func Prepare(opts Options) (*Pipeline, error) {
	logger := logging.GetLogger("pipeline")
	done := logging.LogOperationStart(logger, "prepare")
	defer done()

	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ManifestPath == "" {
		opts.ManifestPath = manifest.DefaultName
	}

	cfg, err := LoadConfig(&opts)
	if err != nil {
		return nil, err
	}

	pkg, err := manifest.Load(opts.Env.FS, opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	format := ui.ResolveFormat(opts.Format, opts.Out)
	u := opts.UI
	if u == nil {
		u = ui.New(format, opts.Out)
	}

	p := &Pipeline{
		Config:   cfg,
		Package:  pkg,
		Payloads: payload.NewDirSource(opts.Env.FS, filepath.Dir(opts.ManifestPath)),
		FS:       opts.Env.FS,
		Runner:   opts.Env.Runner,
		UI:       u,
		Format:   format,
		Out:      opts.Out,
		TempDir:  opts.TempDir,
		temps:    installer.NewTempFiles(opts.TempDir),
		logger:   logger,
	}
	u.Log("Preparing %s (version %s).", pkg.Description, pkg.Version)

	c := classifier.New(cfg, p.Payloads, p.Runner, u)
	c.TempDir = p.TempDir
	p.Selections = c.ClassifyAll(pkg)

	installer.RenderTemplates(pkg, cfg, version.Version, p.temps, u)

	resolver.New(cfg, p.FS).ResolveAll(pkg)

	logger.Info().
		Int("entries", len(pkg.Entries)).
		Int("active", len(pkg.Active())).
		Msg("Package prepared")
	return p, nil
}

// Close removes the rendered templates.
func (p *Pipeline) Close() {
	if err := p.temps.RemoveAll(); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to remove temporary files")
	}
}

// Verify runs the file check and the runtime linkage check.
func (p *Pipeline) Verify() (files, runtime verify.Report) {
	v := verify.New(p.Config, p.FS, p.Payloads, p.Runner, p.UI)
	v.TempDir = p.TempDir
	files = v.CheckFiles(p.Package)
	runtime = v.CheckRuntime(p.Package, p.Selections)
	return files, runtime
}

// Action names what installing e amounts to.
func (p *Pipeline) Action(e *types.Entry) string {
	switch {
	case e.IsSymlink():
		return ActionSymlink
	case p.Config.Installable(e.Category):
		return ActionCopy
	}
	return ActionSkip
}

// Actions reported by Pipeline.Action.
const (
	ActionCopy    = "copy"
	ActionSymlink = "symlink"
	ActionSkip    = "skip"
)
