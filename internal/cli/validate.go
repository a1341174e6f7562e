package cli

import (
	"io"
	"os"

	"github.com/amano41/dircmp/internal/platform"
	"github.com/amano41/dircmp/pkg/config"
	"github.com/amano41/dircmp/pkg/logging"
	"github.com/amano41/dircmp/pkg/models"
	"github.com/amano41/dircmp/pkg/output"
	"github.com/amano41/dircmp/pkg/ratelimit"
	"github.com/amano41/dircmp/pkg/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// validateRoots checks that every root is an existing directory. It runs
// before anything is read or printed.
func validateRoots(roots ...string) error {
	for _, root := range roots {
		if err := platform.ValidatePath(root); err != nil {
			return err
		}
		info, err := os.Stat(root)
		if err != nil {
			return models.NotADirectory(root, err)
		}
		if !info.IsDir() {
			return models.NotADirectory(root, nil)
		}
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with flags the user set
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config, common *CommonFlags) error {
	flags := cmd.Flags()

	if flags.Changed("separator") {
		cfg.Output.Separator = common.Separator
	}
	if flags.Changed("format") {
		cfg.Output.Format = common.Format
	}
	if flags.Changed("exclude") {
		cfg.Exclude = common.Exclude
	}
	if flags.Changed("bandwidth") {
		limit, err := ratelimit.ParseRate(common.Bandwidth)
		if err != nil {
			return err
		}
		cfg.Performance.BandwidthLimit = limit
	}

	if globalFlags.LogFile != "" {
		cfg.Logging.File = globalFlags.LogFile
		cfg.Logging.Enabled = true
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.Verbose {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = "info"
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}

	// Quiet wins over verbose for the console
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
		if cfg.Logging.File == "" {
			cfg.Logging.Level = "error"
		}
	}

	return cfg.Validate()
}

// createLogger creates a logger based on configuration
func createLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	format := logging.FormatText
	if cfg.Logging.Format == "json" {
		format = logging.FormatJSON
	}
	level := logging.ParseLevel(cfg.Logging.Level)

	if cfg.Logging.File == "" {
		return logging.NewConsoleLogger(stderr, format, level), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.Logging.File,
		Format:     format,
		Level:      level,
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}

// newBackend creates the local backend, throttled when a bandwidth limit is set
func newBackend(cfg *config.Config) storage.Backend {
	return storage.NewThrottled(storage.NewLocal(), ratelimit.NewLimiter(cfg.Performance.BandwidthLimit))
}

// writeSession renders session to the output file or to the command's stdout
func writeSession(cmd *cobra.Command, cfg *config.Config, outputFile string, session *models.Session) error {
	useColor := outputFile == "" && !color.NoColor
	formatter, err := output.New(cfg.Output.Format, cfg.Output.Separator, useColor)
	if err != nil {
		return err
	}

	if outputFile != "" {
		return output.WriteFile(outputFile, formatter, session)
	}
	return formatter.Write(cmd.OutOrStdout(), session)
}

func describe(session *models.Session) logging.Fields {
	return logging.Fields{
		"session": session.ID,
		"mode":    string(session.Mode),
		"left":    session.LeftPath,
		"right":   session.RightPath,
	}
}

func summarize(session *models.Session) logging.Fields {
	fields := describe(session)
	fields["duration"] = session.Duration.String()
	for c, n := range session.Counts() {
		fields[string(c)] = n
	}
	if len(session.Skipped) > 0 {
		fields["skipped"] = len(session.Skipped)
	}
	return fields
}
