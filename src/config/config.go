package config

import (
	"fmt"
	"os"

	"stock-analyzer/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Default analysis bounds applied when the YAML omits them.
const (
	DefaultMaxSeriesLength = 10000000
	DefaultWindowSize      = 20
	DefaultMarketMIC       = "xnys"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from a YAML file
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.Analysis.MaxSeriesLength == 0 {
		c.Analysis.MaxSeriesLength = DefaultMaxSeriesLength
	}
	if c.Analysis.DefaultWindowSize == 0 {
		c.Analysis.DefaultWindowSize = DefaultWindowSize
	}
	if c.Market.MIC == "" {
		c.Market.MIC = DefaultMarketMIC
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	if c.Storage.DBType == "" {
		return fmt.Errorf("database type cannot be empty")
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if c.Storage.DBType == "postgres" && c.Storage.DBConnectionString == "" {
		return fmt.Errorf("connection string cannot be empty for postgres")
	}

	if c.Analysis.MaxSeriesLength <= 0 {
		return fmt.Errorf("max series length must be greater than 0")
	}
	if c.Analysis.DefaultWindowSize <= 0 {
		return fmt.Errorf("default window size must be greater than 0")
	}
	if c.Analysis.DefaultWindowSize > c.Analysis.MaxSeriesLength {
		return fmt.Errorf("default window size %d exceeds max series length %d",
			c.Analysis.DefaultWindowSize, c.Analysis.MaxSeriesLength)
	}
	if c.Analysis.MemoryBudgetMB < 0 {
		return fmt.Errorf("memory budget cannot be negative")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
