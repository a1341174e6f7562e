package cli

import (
	"fmt"
	"strings"

	"github.com/amano41/dircmp/pkg/config"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the dircmp configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Shallow Compare: %v\n", cfg.Compare.Shallow)
			fmt.Fprintf(out, "Ignore: %s\n", strings.Join(cfg.Compare.Ignore, ", "))
			fmt.Fprintf(out, "Hash Algorithm: %s\n", cfg.Fingerprint.Algorithm)
			fmt.Fprintf(out, "On Unreadable: %s\n", cfg.Fingerprint.OnUnreadable)
			fmt.Fprintf(out, "Workers: %d\n", cfg.Performance.Workers)
			fmt.Fprintf(out, "Buffer Size: %d\n", cfg.Performance.BufferSize)
			fmt.Fprintf(out, "Bandwidth Limit: %d\n", cfg.Performance.BandwidthLimit)
			fmt.Fprintf(out, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(out, "Separator: %q\n", cfg.Output.Separator)
			fmt.Fprintf(out, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)
			if len(cfg.Exclude) > 0 {
				fmt.Fprintf(out, "Exclude: %s\n", strings.Join(cfg.Exclude, ", "))
			}

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}
}
