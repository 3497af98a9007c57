// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Logging LoggingConfig
	Source  SourceConfig
	Export  ExportConfig
	Metrics MetricsConfig
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File receives log output while the terminal UI is running; empty discards it
	File string `env:"LOG_FILE"`
}

// SourceConfig holds settings for reading the catalog export.
type SourceConfig struct {
	// Encoding is the source code page: latin-1, windows-1252 or utf-8 (default: latin-1)
	Encoding string `env:"SOURCE_ENCODING" default:"latin-1"`

	// PreviewRows is how many rows are shown when assigning headers (default: 5)
	PreviewRows int `env:"PREVIEW_ROWS" default:"5"`

	// Profile is the YAML file holding column assignments
	Profile string `env:"EXPORT_PROFILE" envAlt:"PROFILE_PATH"`
}

// ExportConfig holds the export options applied to every target.
type ExportConfig struct {
	// DestDir is where export files and the warning log are written (default: .)
	DestDir string `env:"EXPORT_DEST_DIR" default:"."`

	// ProgramName appears in the warning log banner
	ProgramName string `env:"PROGRAM_NAME" default:"Catalog Export"`

	// Targets limits the run to these target keys; empty means all
	Targets []string `env:"EXPORT_TARGETS"`

	// BoilerplateEnabled replaces every condition report with BoilerplateText
	BoilerplateEnabled bool   `env:"BP_CONDITION_ENABLED" default:"false"`
	BoilerplateText    string `env:"BP_CONDITION_TEXT"`

	// ComputeStartBids sets starting bids to half the low estimate
	ComputeStartBids bool `env:"CALC_STARTBIDS" default:"false"`

	// EmptyStartBidsOnly limits ComputeStartBids to blank or token bids
	EmptyStartBidsOnly bool `env:"CALC_EMPTY_STARTBIDS_ONLY" default:"false"`

	// CheckTitleQuantities compares quantities named in titles with Qty
	CheckTitleQuantities bool `env:"CHECK_TITLE_QUANTITIES" default:"false"`

	// Timeout bounds a whole run (default: 5m)
	Timeout time.Duration `env:"EXPORT_TIMEOUT" default:"5m"`
}

// MetricsConfig holds run metrics settings.
type MetricsConfig struct {
	// Textfile is a node_exporter textfile path; empty disables metrics output
	Textfile string `env:"METRICS_TEXTFILE"`
}
