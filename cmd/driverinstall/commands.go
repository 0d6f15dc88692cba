package main

import (
	"fmt"
	"io"

	"github.com/arthur-debert/driverinstall/pkg/commands"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/arthur-debert/driverinstall/pkg/ui"
	"github.com/arthur-debert/driverinstall/pkg/verify"
	"github.com/spf13/cobra"
)

func newInstallCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: MsgInstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			format := ui.ResolveFormat(opts.Format, opts.Out)

			result, err := commands.Install(opts)
			if result != nil {
				lines := selectionLines(result.Selections)
				lines = append(lines, reportLines(result.Files, result.Runtime)...)
				title := fmt.Sprintf(MsgInstallSummary, result.Installed,
					result.Package.Description, result.Package.Version)
				writeSummary(opts.Out, format, title, lines, err != nil)
			}
			if err != nil {
				return fmt.Errorf(MsgErrInstall, err)
			}
			return nil
		},
	}
}

func newPlanCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: MsgPlanShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			format := ui.ResolveFormat(opts.Format, opts.Out)

			result, err := commands.Plan(opts)
			if err != nil {
				return fmt.Errorf(MsgErrPlan, err)
			}

			header, rows := result.Table()
			table, err := ui.RenderTable(format, header, rows)
			if err != nil {
				return fmt.Errorf(MsgErrPlan, err)
			}
			_, _ = fmt.Fprintf(opts.Out, "%s %s\n", result.Description, result.Version)
			for _, line := range selectionLines(result.Selections) {
				_, _ = fmt.Fprintln(opts.Out, line)
			}
			_, _ = fmt.Fprintln(opts.Out)
			_, _ = fmt.Fprint(opts.Out, table)
			_, _ = fmt.Fprintf(opts.Out, MsgPlanFooter+"\n", len(result.Steps), result.Excluded)
			return nil
		},
	}
}

func newVerifyCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: MsgVerifyShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			format := ui.ResolveFormat(opts.Format, opts.Out)

			result, err := commands.Verify(opts)
			if result != nil {
				outcome := MsgPassed
				if err != nil {
					outcome = MsgFailed
				}
				title := fmt.Sprintf(MsgVerifySummary, opts.ManifestPath) + ": " + outcome
				writeSummary(opts.Out, format, title, reportLines(result.Files, result.Runtime), err != nil)
			}
			if err != nil {
				return fmt.Errorf(MsgErrVerify, err)
			}
			return nil
		},
	}
}

func selectionLines(sels types.Selections) []string {
	lines := make([]string, 0, len(sels))
	for _, sel := range sels {
		forced := ""
		if sel.Forced {
			forced = MsgForced
		}
		lines = append(lines, fmt.Sprintf(MsgSelection, sel.Arch, sel.ABI, forced))
	}
	return lines
}

func reportLines(reports ...verify.Report) []string {
	var lines []string
	for _, r := range reports {
		lines = append(lines, r.Lines()...)
	}
	if len(lines) == 0 {
		lines = append(lines, MsgNoIssues)
	}
	return lines
}

func writeSummary(out io.Writer, format ui.Format, title string, lines []string, failed bool) {
	_, _ = fmt.Fprint(out, ui.RenderSummary(format, title, lines, failed))
}
