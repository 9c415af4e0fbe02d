package cli

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/cybertec-postgresql/sqlsplit/internal/report"
	"github.com/cybertec-postgresql/sqlsplit/pkg/types"
)

// Config is an alias for the shared Config type
type Config = types.Config

// EnvPrefix prefixes environment variables that override configuration
const EnvPrefix = "SQLSPLIT_"

// DefaultConfigFile is read when present and no --config is given
const DefaultConfigFile = "sqlsplit.yaml"

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Timeout:     5 * time.Minute,
	Parallelism: 4,
	LogFormat:   string(logger.FormatHuman),
	Format:      "text",
	Output:      "-",
}

func defaultsMap() map[string]interface{} {
	return map[string]interface{}{
		"timeout":     DefaultConfig.Timeout.String(),
		"parallel":    DefaultConfig.Parallelism,
		"verbose":     false,
		"dry_run":     false,
		"log_format":  DefaultConfig.LogFormat,
		"format":      DefaultConfig.Format,
		"output":      DefaultConfig.Output,
		"output_size": "",
		"out":         "",
		"connection":  "",
	}
}

// LoadConfig builds the configuration in layers: defaults, then the YAML
// file, then SQLSPLIT_* environment variables, then flags. flags holds
// only the flags the user set, keyed by config key.
func LoadConfig(configFile string, flags map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configFile = DefaultConfigFile
		}
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.NewConfigError("config", fmt.Sprintf("error reading %s: %v", configFile, err))
		}
	}

	// SQLSPLIT_OUTPUT_SIZE -> output_size
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if len(flags) > 0 {
		if err := k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.NewConfigError("config", fmt.Sprintf("unable to decode: %v", err))
	}
	cfg.ConfigFile = configFile
	return &cfg, nil
}

// ParseSize converts a size such as "512", "64kb", "10mb" or "1GB" into
// bytes. Suffixes use binary multipliers.
func ParseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("size is required")
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q: use a byte count or a kb, mb or gb suffix", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("size must be at least 1 byte, got %q", s)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return int(n), nil
}

// DefaultOutputDir names the output directory after the input file: the
// base name up to its first dot, with spaces replaced by underscores.
func DefaultOutputDir(input string) string {
	name := filepath.Base(input)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return strings.ReplaceAll(name, " ", "_")
}

// ValidateSplit checks the configuration of the split command and fills
// in the derived fields.
func ValidateSplit(c *Config) error {
	if err := validateCommon(c); err != nil {
		return err
	}
	if c.Input == "" {
		return errors.NewConfigError("input", "an input file is required")
	}
	info, err := os.Stat(c.Input)
	if err != nil {
		return errors.NewConfigError("input", fmt.Sprintf("cannot open %s: %v", c.Input, err))
	}
	if info.IsDir() {
		return errors.NewConfigError("input", fmt.Sprintf("%s is a directory", c.Input))
	}

	size, err := ParseSize(c.OutputSize)
	if err != nil {
		return errors.NewConfigError("output-size", err.Error())
	}
	c.MaxFileSize = size

	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir(c.Input)
	}
	if c.OutputDir == "" {
		return errors.NewConfigError("out", "cannot derive an output directory from the input name")
	}
	return nil
}

// ValidateVerify checks the configuration of the verify command
func ValidateVerify(c *Config) error {
	if err := validateCommon(c); err != nil {
		return err
	}
	if c.Parallelism < 1 {
		return errors.NewConfigError("parallel", "must be at least 1")
	}
	return nil
}

// ValidateLoad checks the configuration of the load command. An empty
// connection string is allowed; pgx then falls back to PG* variables.
func ValidateLoad(c *Config) error {
	if err := validateCommon(c); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return errors.NewConfigError("timeout", "must be positive")
	}
	return nil
}

// ValidateReport checks the configuration of the report command
func ValidateReport(c *Config) error {
	if err := validateCommon(c); err != nil {
		return err
	}
	if !report.ValidFormat(c.Format) {
		return errors.NewConfigError("format", fmt.Sprintf("unsupported format %q (supported: %v)", c.Format, report.SupportedFormats()))
	}
	return nil
}

func validateCommon(c *Config) error {
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return errors.NewConfigError("log-format", err.Error())
	}
	return nil
}

// SetupLogging installs the default logger described by c
func SetupLogging(c *Config) error {
	format, err := logger.ParseFormat(c.LogFormat)
	if err != nil {
		return errors.NewConfigError("log-format", err.Error())
	}
	logger.SetDefault(logger.NewWithFormat(c.Verbose, os.Stderr, format))
	return nil
}
