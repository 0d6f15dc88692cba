package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	successColor = lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	borderColor  = lipgloss.AdaptiveColor{Light: "#DEE2E6", Dark: "#495057"}

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 2)

	passTitleStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	failTitleStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

// RenderTable renders rows under header as an aligned table. Terminal
// output gets a styled header; text output is plain.
func RenderTable(format Format, header []string, rows [][]string) (string, error) {
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, header)
	data = append(data, rows...)

	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	if format != FormatTerminal {
		table = table.WithHeaderStyle(pterm.NewStyle()).WithSeparator("  ")
	}
	return table.Srender()
}

// RenderSummary renders a titled block of lines. Terminal output is boxed
// and colored by outcome.
func RenderSummary(format Format, title string, lines []string, failed bool) string {
	if format != FormatTerminal {
		var b strings.Builder
		b.WriteString(title)
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		return b.String()
	}

	titleStyle := passTitleStyle
	if failed {
		titleStyle = failTitleStyle
	}
	body := titleStyle.Render(title)
	if len(lines) > 0 {
		body += "\n\n" + strings.Join(lines, "\n")
	}
	return boxStyle.Render(body) + "\n"
}
