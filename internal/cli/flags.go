package cli

import "github.com/spf13/cobra"

// globalFlags is shared by every subcommand.
var globalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

// AddGlobalFlags registers the persistent flags on the root command.
func AddGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&globalFlags.ConfigFile, "config", "", "config file (default is dupenorris/config.yaml under the user config dir)")
	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress non-error output")
}
