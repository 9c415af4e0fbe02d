package types

import "time"

// Config holds runtime configuration combining defaults, the config file,
// SQLSPLIT_* environment variables and flags
type Config struct {
	// Split
	Input       string `koanf:"-"`           // Dump to split
	OutputDir   string `koanf:"out"`         // Defaults to the input stem
	OutputSize  string `koanf:"output_size"` // e.g. "10mb"
	MaxFileSize int    `koanf:"-"`           // OutputSize in bytes, set by validation
	ConfigFile  string `koanf:"-"`

	// PostgreSQL
	ConnectionString string        `koanf:"connection"` // URI or key=value; PG* env vars also apply
	Timeout          time.Duration `koanf:"timeout"`    // Per-fragment timeout
	DryRun           bool          `koanf:"dry_run"`    // Load into a throwaway database

	// Execution
	Parallelism int `koanf:"parallel"` // Max concurrent verifications

	// Output
	Verbose   bool   `koanf:"verbose"`    // Enable debug logging
	LogFormat string `koanf:"log_format"` // human or json
	Format    string `koanf:"format"`     // Report format
	Output    string `koanf:"output"`     // Report destination, - for stdout
}

