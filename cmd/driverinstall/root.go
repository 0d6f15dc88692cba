package main

import (
	"fmt"

	"github.com/arthur-debert/driverinstall/internal/version"
	"github.com/arthur-debert/driverinstall/pkg/commands"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/manifest"
	"github.com/arthur-debert/driverinstall/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbosity     int
	manifestPath  string
	configFile    string
	format        string
	forceTLS      string
	forceTLS32    string
	noCompat32    bool
	openGLHeaders bool
	openGLPrefix  string
	xPrefix       string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "driverinstall",
		Short:   MsgRootShort,
		Long:    msgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVarP(&flags.manifestPath, "manifest", "m", manifest.DefaultName, MsgFlagManifest)
	pf.StringVarP(&flags.configFile, "config", "c", "", MsgFlagConfig)
	pf.StringVar(&flags.format, "format", ui.FormatAuto.String(), MsgFlagFormat)
	pf.StringVar(&flags.forceTLS, "force-tls", "", MsgFlagForceTLS)
	pf.StringVar(&flags.forceTLS32, "force-tls32", "", MsgFlagForceTLS32)
	pf.BoolVar(&flags.noCompat32, "no-compat32", false, MsgFlagNoCompat32)
	pf.BoolVar(&flags.openGLHeaders, "opengl-headers", false, MsgFlagOpenGLHeaders)
	pf.StringVar(&flags.openGLPrefix, "opengl-prefix", "", MsgFlagOpenGLPrefix)
	pf.StringVar(&flags.xPrefix, "x-prefix", "", MsgFlagXPrefix)

	rootCmd.AddCommand(newInstallCmd(flags))
	rootCmd.AddCommand(newPlanCmd(flags))
	rootCmd.AddCommand(newVerifyCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// options maps the global flags onto command options. Only flags given on
// the command line become configuration overrides.
func (f *globalFlags) options(cmd *cobra.Command) (commands.Options, error) {
	format, err := ui.ParseFormat(f.format)
	if err != nil {
		return commands.Options{}, fmt.Errorf(MsgErrFormat, err)
	}

	overrides := map[string]interface{}{}
	changed := cmd.Flags().Changed
	if changed("force-tls") {
		overrides["tls.force"] = f.forceTLS
	}
	if changed("force-tls32") {
		overrides["tls.force32"] = f.forceTLS32
	}
	if changed("no-compat32") {
		overrides["install.compat32"] = !f.noCompat32
	}
	if changed("opengl-headers") {
		overrides["install.opengl_headers"] = f.openGLHeaders
	}
	if changed("opengl-prefix") {
		overrides["prefixes.opengl"] = f.openGLPrefix
	}
	if changed("x-prefix") {
		overrides["prefixes.x"] = f.xPrefix
	}

	return commands.Options{
		ManifestPath: f.manifestPath,
		ConfigFile:   f.configFile,
		Overrides:    overrides,
		Format:       format,
		Out:          cmd.OutOrStdout(),
	}, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			out, err := commands.ShowConfig(opts)
			if err != nil {
				return fmt.Errorf(MsgErrConfig, err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})
	return configCmd
}
