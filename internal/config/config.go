// =============================================================================
// CTOS Report Extractor - Configuration Module
// =============================================================================
//
// Loads the application configuration from a YAML file and fills in
// defaults for anything the file leaves out. The configuration covers
// the input column names, the export location and naming, logging, and
// progress-reporting granularity.
//
// A missing configuration file is not an error: the defaults describe a
// fully working setup, so the CLI runs out of the box.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// AccountColumn is the header of the account-identifier column in
	// the input workbook. Matching is case-insensitive after trimming.
	// Default: "NU_PTL"
	AccountColumn string `yaml:"account_column"`

	// XMLColumn is the header of the column carrying the raw XML text.
	// Default: "XML_DATA"
	XMLColumn string `yaml:"xml_column"`

	// SequenceColumn is the header of the optional row-sequence column
	// used to order fragments of one account. When the input workbook
	// has no such column every row gets sequence 0.
	// Default: "ROW_SEQ"
	SequenceColumn string `yaml:"sequence_column"`

	// =========================================================================
	// EXPORT SETTINGS
	// =========================================================================

	// ExportDir is the directory export workbooks are written to.
	// Default: "./exports"
	ExportDir string `yaml:"export_dir"`

	// ExportNameFormat names the export file. Placeholders:
	//   {stem}      - input file name without extension
	//   {timestamp} - generation time (YYYYMMDD_HHMMSS)
	//   {uuid}      - short random suffix
	// Default: "{stem}_{timestamp}_{uuid}.xlsx"
	ExportNameFormat string `yaml:"export_name_format"`

	// =========================================================================
	// LOGGING AND PROGRESS
	// =========================================================================

	// LogLevel controls verbosity: "debug", "info", "warn" or "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// ProgressEvery is how many accounts to process between progress
	// callbacks. Completion always reports regardless.
	// Default: 50
	ProgressEvery int `yaml:"progress_every"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path. A nonexistent file yields
// the defaults; an unreadable or malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyDefaults fills in zero-valued settings.
func applyDefaults(cfg *Config) {
	if cfg.AccountColumn == "" {
		cfg.AccountColumn = "NU_PTL"
	}
	if cfg.XMLColumn == "" {
		cfg.XMLColumn = "XML_DATA"
	}
	if cfg.SequenceColumn == "" {
		cfg.SequenceColumn = "ROW_SEQ"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "./exports"
	}
	if cfg.ExportNameFormat == "" {
		cfg.ExportNameFormat = "{stem}_{timestamp}_{uuid}.xlsx"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 50
	}
}

// validate rejects configurations that would fail later in confusing
// ways.
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.AccountColumn) == "" {
		return fmt.Errorf("account_column must not be blank")
	}
	if strings.TrimSpace(cfg.XMLColumn) == "" {
		return fmt.Errorf("xml_column must not be blank")
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}

// ZapLevel maps the configured level onto zap's levels.
func (c *Config) ZapLevel() zapcore.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
