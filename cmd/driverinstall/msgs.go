package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Install graphics driver files for this host"
	MsgInstallShort    = "Install the driver package"
	MsgPlanShort       = "Show where every file would be installed"
	MsgVerifyShort     = "Check an existing installation"
	MsgConfigShort     = "Inspect the configuration"
	MsgConfigShowShort = "Print the effective configuration as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Summaries
	MsgInstallSummary = "Installed %d files from %s %s"
	MsgVerifySummary  = "Verification of %s"
	MsgPassed         = "passed"
	MsgFailed         = "failed"
	MsgNoIssues       = "no issues found"
	MsgSelection      = "%s libraries: %s TLS%s"
	MsgForced         = " (forced)"
	MsgPlanFooter     = "%d files, %d excluded"

	// Version output
	MsgVersionFormat = "driverinstall version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrInstall = "installation failed: %w"
	MsgErrPlan    = "failed to plan installation: %w"
	MsgErrVerify  = "verification failed: %w"
	MsgErrConfig  = "failed to load configuration: %w"
	MsgErrFormat  = "invalid --format: %w"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagManifest      = "Package manifest to install from"
	MsgFlagConfig        = "Configuration file (default /etc/driverinstall.toml)"
	MsgFlagFormat        = "Output format: auto, term or text"
	MsgFlagForceTLS      = "Skip the TLS probe and use the classic or new libraries"
	MsgFlagForceTLS32    = "Skip the 32-bit TLS probe and use the classic or new libraries"
	MsgFlagNoCompat32    = "Do not install 32-bit compatibility libraries"
	MsgFlagOpenGLHeaders = "Install the OpenGL header files"
	MsgFlagOpenGLPrefix  = "Installation prefix for the OpenGL libraries"
	MsgFlagXPrefix       = "Installation prefix for the X libraries"
)

const msgRootLong = `driverinstall installs the files of an extracted graphics driver package.

It probes which thread-local-storage build of the OpenGL libraries the host
can run, maps every file to the directory layout of the distribution,
installs the files and then checks that the dynamic linker picks up the
libraries it just installed.`
