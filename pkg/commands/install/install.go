package install

import (
	"github.com/arthur-debert/driverinstall/pkg/commands/internal"
	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/installer"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/arthur-debert/driverinstall/pkg/verify"
)

// InstallOptions defines the options for the Install command.
type InstallOptions = internal.Options

// InstallResult is what an installation did and what the checks found.
type InstallResult struct {
	Package    *types.Package
	Selections types.Selections
	// Installed counts files and links written.
	Installed int
	Files     verify.Report
	Runtime   verify.Report
}

// Install prepares the package, writes every active entry to its
// destination in manifest order and verifies the result. Write failures
// stop the installation; a failed runtime check is returned as an
// ErrLinkage error together with the result.
func Install(opts InstallOptions) (*InstallResult, error) {
	log := logging.GetLogger("commands.install")
	log.Debug().Str("command", "Install").Msg("Executing command")

	p, err := internal.Prepare(opts)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result := &InstallResult{
		Package:    p.Package,
		Selections: p.Selections,
	}

	active := p.Package.Active()
	p.UI.Log("Installing %d files.", len(active))
	for i, e := range active {
		p.UI.Progress(float64(i)/float64(len(active)), e.DestinationPath)

		switch p.Action(e) {
		case internal.ActionSymlink:
			err = installer.InstallSymlink(e.SymlinkTarget, e.DestinationPath)
		case internal.ActionCopy:
			err = installer.Install(e.SourcePath, e.DestinationPath, e.Mode)
		default:
			continue
		}
		if err != nil {
			p.UI.Error("Unable to install %s: %v", e.DestinationPath, err)
			return result, err
		}
		result.Installed++
		log.Debug().
			Str("destination", e.DestinationPath).
			Str("category", e.Category.String()).
			Msg("Installed")
	}
	p.UI.Progress(1, "done")

	result.Files, result.Runtime = p.Verify()

	log.Info().
		Str("command", "Install").
		Int("installed", result.Installed).
		Int("issues", len(result.Files.Issues)+len(result.Runtime.Issues)).
		Msg("Command finished")

	if result.Runtime.Failed {
		return result, errors.New(errors.ErrLinkage,
			"the runtime configuration check failed; the installed libraries will not be used")
	}
	return result, nil
}
