package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/dircmp/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"log progress details to stderr",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress progress and warnings",
	)
	cmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "write logs to file instead of stderr")
	cmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}

// CommonFlags holds flags shared by the comparison commands
type CommonFlags struct {
	Separator string
	Format    string
	Output    string
	Exclude   []string
	Bandwidth string
}

func addCommonFlags(cmd *cobra.Command, f *CommonFlags) {
	cmd.Flags().StringVarP(&f.Separator, "separator", "s", "\t", "field separator for records output")
	cmd.Flags().StringVar(&f.Format, "format", "records", "output format: records, json, table")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringSliceVar(&f.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&f.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g., \"10M\", \"1G\")")
}
