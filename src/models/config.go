package models

// MConfig Structure
type MConfig struct {
	Name     string          `yaml:"name"`
	Host     string          `yaml:"host"`
	Port     int             `yaml:"port"`
	LogLevel string          `yaml:"log_level"`
	Storage  MStorageConfig  `yaml:"storage"`
	Analysis MAnalysisConfig `yaml:"analysis"`
	Market   MMarketConfig   `yaml:"market"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

// MAnalysisConfig bounds the analytics engine.
// MaxSeriesLength caps input size before any allocation happens.
// MemoryBudgetMB of 0 means "derive from system RAM".
type MAnalysisConfig struct {
	MaxSeriesLength   int `yaml:"max_series_length"`
	DefaultWindowSize int `yaml:"default_window_size"`
	MemoryBudgetMB    int `yaml:"memory_budget_mb"`
}

type MMarketConfig struct {
	MIC string `yaml:"mic"` // ISO 10383 market identifier for session reporting
}
