package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the dircmp command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dircmp",
		Short: "Compare directory trees",
		Long: `dircmp compares two directory trees, or one tree against itself.

hashcmp groups files by content hash to find duplicates and files unique
to one side. treecmp walks both trees by path and reports files that are
the same, differ, or exist on one side only.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewHashCmpCommand())
	rootCmd.AddCommand(NewTreeCmpCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
