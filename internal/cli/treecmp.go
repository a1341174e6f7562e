package cli

import (
	"context"
	"fmt"

	"github.com/amano41/dircmp/internal/platform"
	"github.com/amano41/dircmp/pkg/compare"
	"github.com/amano41/dircmp/pkg/filter"
	"github.com/amano41/dircmp/pkg/models"
	"github.com/amano41/dircmp/pkg/tree"
	"github.com/spf13/cobra"
)

// TreeFlags holds treecmp command flags
type TreeFlags struct {
	CommonFlags
	Full bool
}

var treeFlags TreeFlags

// NewTreeCmpCommand creates the treecmp command
func NewTreeCmpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treecmp DIR1 DIR2",
		Short: "Compare two directory trees path by path",
		Long: `Walk both trees together and classify every file as same, diff,
funny (could not be compared), left only or right only.

Files are compared by size and modification time unless --full is given,
in which case their contents are read. A subdirectory present on one side
only is reported file by file against the directory holding each file.`,
		Args: cobra.ExactArgs(2),
		RunE: runTreeCmp,
	}

	cmd.Flags().BoolVarP(&treeFlags.Full, "full", "f", false, "compare file contents instead of size and modification time")
	addCommonFlags(cmd, &treeFlags.CommonFlags)

	return cmd
}

func runTreeCmp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	left := platform.NormalizePath(args[0])
	right := platform.NormalizePath(args[1])
	if err := validateRoots(left, right); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if treeFlags.Full {
		cfg.Compare.Shallow = false
	}
	if err := applyFlagsToConfig(cmd, cfg, &treeFlags.CommonFlags); err != nil {
		return err
	}

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	backend := newBackend(cfg)
	defer backend.Close()

	session := models.NewSession(models.ModeTree, left, right)
	session.Shallow = cfg.Compare.Shallow
	logger.Info(ctx, "comparison started", describe(session))

	comparator := compare.New(cfg.Compare.Shallow, cfg.Performance.BufferSize)
	patterns := append(append([]string{}, cfg.Compare.Ignore...), cfg.Exclude...)
	walker := tree.NewWalker(backend, comparator, filter.New(patterns), logger)

	result, err := walker.Walk(ctx, left, right)
	if err != nil {
		return fmt.Errorf("failed to compare trees: %w", err)
	}

	session.Records = result.Records()
	session.Finish()
	logger.Info(ctx, "comparison finished", summarize(session))

	return writeSession(cmd, cfg, treeFlags.Output, session)
}
