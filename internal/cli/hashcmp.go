package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/amano41/dircmp/internal/platform"
	"github.com/amano41/dircmp/pkg/config"
	"github.com/amano41/dircmp/pkg/filter"
	"github.com/amano41/dircmp/pkg/fingerprint"
	"github.com/amano41/dircmp/pkg/models"
	"github.com/amano41/dircmp/pkg/output"
	"github.com/spf13/cobra"
)

// HashFlags holds hashcmp command flags
type HashFlags struct {
	CommonFlags
	Left         bool
	Right        bool
	Uniq         bool
	Dups         bool
	All          bool
	Algorithm    string
	OnUnreadable string
	Workers      int
}

var hashFlags HashFlags

// NewHashCmpCommand creates the hashcmp command
func NewHashCmpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hashcmp DIR1 [DIR2]",
		Short: "Compare directory trees by file content",
		Long: `Group the files of one or two trees by a hash of their content,
regardless of name or location.

With two trees, report content found only on the left, only on the right,
or on both sides. When no selection flag is given, --all is implied.
With one tree (or the same directory twice), report content that appears
more than once within it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runHashCmp,
	}

	cmd.Flags().BoolVarP(&hashFlags.Left, "left", "l", false, "report content found only in DIR1")
	cmd.Flags().BoolVarP(&hashFlags.Right, "right", "r", false, "report content found only in DIR2")
	cmd.Flags().BoolVarP(&hashFlags.Uniq, "uniq", "u", false, "report content found on exactly one side")
	cmd.Flags().BoolVarP(&hashFlags.Dups, "dups", "d", false, "report content found on both sides")
	cmd.Flags().BoolVarP(&hashFlags.All, "all", "a", false, "report left only, right only and duplicates")
	cmd.Flags().StringVar(&hashFlags.Algorithm, "algorithm", fingerprint.DefaultAlgorithm, fmt.Sprintf("hash algorithm: %v", fingerprint.Algorithms()))
	cmd.Flags().StringVar(&hashFlags.OnUnreadable, "on-unreadable", "skip", "unreadable files: skip (warn and continue) or strict (abort)")
	cmd.Flags().IntVarP(&hashFlags.Workers, "workers", "w", 0, "number of files hashed in parallel (default from config)")
	addCommonFlags(cmd, &hashFlags.CommonFlags)

	return cmd
}

func runHashCmp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	left := platform.NormalizePath(args[0])
	right := ""
	if len(args) == 2 {
		right = platform.NormalizePath(args[1])
	}

	// Validate roots before anything is printed
	roots := []string{left}
	if right != "" {
		roots = append(roots, right)
	}
	if err := validateRoots(roots...); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		cfg.Fingerprint.Algorithm = hashFlags.Algorithm
	}
	if flags.Changed("on-unreadable") {
		cfg.Fingerprint.OnUnreadable = hashFlags.OnUnreadable
	}
	if hashFlags.Workers > 0 {
		cfg.Performance.Workers = hashFlags.Workers
	}
	if err := applyFlagsToConfig(cmd, cfg, &hashFlags.CommonFlags); err != nil {
		return err
	}

	algorithm, err := fingerprint.Lookup(cfg.Fingerprint.Algorithm)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	backend := newBackend(cfg)
	defer backend.Close()

	sameRoot := right == ""
	if !sameRoot {
		sameRoot, err = backend.SameDir(ctx, left, right)
		if err != nil {
			return err
		}
	}

	session := models.NewSession(models.ModeFingerprint, left, right)
	session.SameRoot = sameRoot
	logger.Info(ctx, "comparison started", describe(session))

	builder := fingerprint.NewBuilder(backend, fingerprint.BuilderConfig{
		Algorithm:    algorithm,
		BufferSize:   cfg.Performance.BufferSize,
		Workers:      cfg.Performance.Workers,
		OnUnreadable: fingerprint.UnreadablePolicy(cfg.Fingerprint.OnUnreadable),
		Exclude:      filter.New(cfg.Exclude),
	}, logger)

	leftTable, err := buildTable(ctx, cmd, cfg, builder, left, "left")
	if err != nil {
		return err
	}
	session.Skipped = skippedPaths(leftTable)

	if sameRoot {
		session.Records = fingerprint.WithinRecords(leftTable)
	} else {
		rightTable, err := buildTable(ctx, cmd, cfg, builder, right, "right")
		if err != nil {
			return err
		}
		session.Skipped = append(session.Skipped, skippedPaths(rightTable)...)

		selection := fingerprint.Selection{
			LeftOnly:   hashFlags.Left,
			RightOnly:  hashFlags.Right,
			Unique:     hashFlags.Uniq,
			Duplicates: hashFlags.Dups,
		}
		if hashFlags.All || selection.Empty() {
			selection = selection.WithAll()
		}
		session.Records = selection.Records(leftTable, rightTable)
	}

	session.Finish()
	logger.Info(ctx, "comparison finished", summarize(session))

	return writeSession(cmd, cfg, hashFlags.Output, session)
}

// buildTable fingerprints root, showing a progress bar on an interactive stderr
func buildTable(ctx context.Context, cmd *cobra.Command, cfg *config.Config, builder *fingerprint.Builder, root, label string) (*fingerprint.Table, error) {
	builder.SetProgressCallback(nil)
	if cfg.Output.Progress && output.IsTerminal(os.Stderr) {
		progress := output.NewHashProgress(cmd.ErrOrStderr(), label)
		builder.SetProgressCallback(progress.Update)
		defer progress.Finish()
	}

	table, err := builder.Build(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint %s: %w", root, err)
	}
	return table, nil
}

func skippedPaths(t *fingerprint.Table) []string {
	var paths []string
	for _, s := range t.Skipped {
		paths = append(paths, s.Path)
	}
	return paths
}
