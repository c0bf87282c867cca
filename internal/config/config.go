// Package config loads rolo's configuration from ~/.rolo/config.yml
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all rolo settings
type Config struct {
	// Backend selects the storage backend: "sqlite" or "postgres"
	// Default: sqlite
	Backend string `yaml:"backend"`

	// DBPath is the SQLite database file path
	// Default: ~/.rolo/rolo.db
	DBPath string `yaml:"db_path"`

	// PostgresDSN is the connection string used when Backend is "postgres"
	PostgresDSN string `yaml:"postgres_dsn"`

	// APIKey is the Anthropic API key. Usually left empty here and
	// provided via ANTHROPIC_API_KEY instead.
	APIKey string `yaml:"api_key"`

	// Model overrides the default model for AI-assisted operations
	Model string `yaml:"model"`

	// AIMerge enables AI-assisted merging during imports when an API
	// key is available
	// Default: false
	AIMerge bool `yaml:"ai_merge"`

	// AINormalize enables AI-assisted row normalization during imports
	// Default: false
	AINormalize bool `yaml:"ai_normalize"`

	// ImportBatchSize is the number of rows sent per normalization call
	// Default: 20, Range: 1-100
	ImportBatchSize int `yaml:"import_batch_size"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend:         "sqlite",
		DBPath:          defaultDBPath(),
		ImportBatchSize: 20,
	}
}

// defaultDBPath returns ~/.rolo/rolo.db, falling back to a relative
// path when the home directory cannot be determined
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".rolo", "rolo.db")
	}
	return filepath.Join(home, ".rolo", "rolo.db")
}

// DefaultConfigPath returns ~/.rolo/config.yml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".rolo", "config.yml")
	}
	return filepath.Join(home, ".rolo", "config.yml")
}

// Load reads the config file at path (if it exists), applies environment
// variable overrides, and validates the result. A missing file is not an
// error; defaults are used.
//
// Environment variables:
//   - ROLO_BACKEND: storage backend, "sqlite" or "postgres"
//   - ROLO_DB: SQLite database path
//   - ROLO_POSTGRES_DSN: PostgreSQL connection string
//   - ROLO_MODEL: model override for AI-assisted operations
//   - ROLO_IMPORT_BATCH_SIZE: rows per normalization call
//   - ANTHROPIC_API_KEY: Anthropic API key
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// File may have left these empty
	if cfg.Backend == "" {
		cfg.Backend = "sqlite"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	if cfg.ImportBatchSize == 0 {
		cfg.ImportBatchSize = 20
	}

	parseEnvString("ROLO_BACKEND", &cfg.Backend)
	parseEnvString("ROLO_DB", &cfg.DBPath)
	parseEnvString("ROLO_POSTGRES_DSN", &cfg.PostgresDSN)
	parseEnvString("ROLO_MODEL", &cfg.Model)
	parseEnvString("ANTHROPIC_API_KEY", &cfg.APIKey)
	if err := parseEnvInt("ROLO_IMPORT_BATCH_SIZE", &cfg.ImportBatchSize); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration has valid values
func (c *Config) Validate() error {
	if c.Backend != "sqlite" && c.Backend != "postgres" {
		return fmt.Errorf("backend must be 'sqlite' or 'postgres' (got %q)", c.Backend)
	}
	if c.Backend == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("postgres backend requires postgres_dsn (or ROLO_POSTGRES_DSN)")
	}
	if c.ImportBatchSize < 1 || c.ImportBatchSize > 100 {
		return fmt.Errorf("import_batch_size must be between 1 and 100 (got %d)", c.ImportBatchSize)
	}
	return nil
}

// parseEnvString parses a string from an environment variable
func parseEnvString(key string, dest *string) {
	if value := os.Getenv(key); value != "" {
		*dest = value
	}
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
