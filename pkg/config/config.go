package config

import (
	"github.com/amano41/dircmp/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Fingerprint FingerprintConfig `yaml:"fingerprint"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// DefaultIgnore lists names hidden from tree comparisons at every level
var DefaultIgnore = []string{"RCS", "CVS", "tags", ".git", ".hg", ".bzr", "_darcs", "__pycache__"}

// CompareConfig holds tree comparison settings
type CompareConfig struct {
	Shallow bool     `yaml:"shallow"` // size+mtime only; false reads contents
	Ignore  []string `yaml:"ignore"`  // merged with exclude by treecmp only
}

// FingerprintConfig holds content fingerprint settings
type FingerprintConfig struct {
	Algorithm    string `yaml:"algorithm"`
	OnUnreadable string `yaml:"on_unreadable"` // "skip" or "strict"
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	Workers        int   `yaml:"workers"`
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format    string `yaml:"format"` // "records", "json" or "table"
	Separator string `yaml:"separator"`
	Progress  bool   `yaml:"progress"`
	Quiet     bool   `yaml:"quiet"`
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Shallow: true,
			Ignore:  append([]string(nil), DefaultIgnore...),
		},
		Fingerprint: FingerprintConfig{
			Algorithm:    "md5",
			OnUnreadable: "skip",
		},
		Performance: PerformanceConfig{
			Workers:        4,
			BufferSize:     65536,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:    "records",
			Separator: "\t",
			Progress:  true,
			Quiet:     false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "text",
			Level:   "warn",
			File:    "",
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validAlgorithms := map[string]bool{"md5": true, "sha1": true, "sha256": true, "sha512": true, "sha3-256": true}
	if !validAlgorithms[c.Fingerprint.Algorithm] {
		return &models.ValidationError{
			Field:   "fingerprint.algorithm",
			Message: "must be one of md5, sha1, sha256, sha512, sha3-256",
		}
	}

	if c.Fingerprint.OnUnreadable != "skip" && c.Fingerprint.OnUnreadable != "strict" {
		return &models.ValidationError{
			Field:   "fingerprint.on_unreadable",
			Message: "must be 'skip' or 'strict'",
		}
	}

	if c.Performance.Workers < 1 {
		return &models.ValidationError{
			Field:   "performance.workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"records": true, "json": true, "table": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'records', 'json' or 'table'",
		}
	}

	if c.Output.Separator == "" {
		return &models.ValidationError{
			Field:   "output.separator",
			Message: "must not be empty",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
