package plan

import (
	"github.com/arthur-debert/driverinstall/pkg/commands/internal"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/types"
)

// PlanOptions defines the options for the Plan command.
type PlanOptions = internal.Options

// Step is one file the installation would write.
type Step struct {
	Action      string
	Category    string
	Arch        string
	ABI         string
	Destination string
	Source      string
}

// PlanResult lists what Install would do, without doing it.
type PlanResult struct {
	Description string
	Version     string
	Selections  types.Selections
	Steps       []Step
	// Excluded counts entries that will not be installed.
	Excluded int
}

// Plan runs the probes and computes every destination but writes nothing
// outside the temporary directory.
func Plan(opts PlanOptions) (*PlanResult, error) {
	log := logging.GetLogger("commands.plan")
	log.Debug().Str("command", "Plan").Msg("Executing command")

	p, err := internal.Prepare(opts)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result := &PlanResult{
		Description: p.Package.Description,
		Version:     p.Package.Version,
		Selections:  p.Selections,
	}
	for _, e := range p.Package.Entries {
		if e.Excluded() {
			result.Excluded++
			continue
		}
		source := e.SourcePath
		if e.IsSymlink() {
			source = e.SymlinkTarget
		} else if e.Rendered {
			source = "(rendered template)"
		}
		result.Steps = append(result.Steps, Step{
			Action:      p.Action(e),
			Category:    e.Category.String(),
			Arch:        e.Arch.String(),
			ABI:         e.ABI.String(),
			Destination: e.DestinationPath,
			Source:      source,
		})
	}

	log.Info().Str("command", "Plan").Int("steps", len(result.Steps)).Msg("Command finished")
	return result, nil
}

// Table returns the plan as a header and rows.
func (r *PlanResult) Table() ([]string, [][]string) {
	header := []string{"ACTION", "CATEGORY", "ARCH", "TLS", "DESTINATION", "SOURCE"}
	rows := make([][]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		rows = append(rows, []string{s.Action, s.Category, s.Arch, s.ABI, s.Destination, s.Source})
	}
	return header, rows
}
