// Package config loads application configuration from environment variables
// with an optional YAML file overlay.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces every environment variable, e.g. SHELTER_LOGGING_LEVEL.
const envPrefix = "SHELTER"

// Config represents the complete application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Dataset DatasetConfig `yaml:"dataset" envconfig:"DATASET"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/shelterprep.log"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// DatasetConfig describes the one schema knob the source provider controls:
// which header carries the outcome timestamp, plus the workbook sheet for
// XLSX exports.
type DatasetConfig struct {
	DateColumn string `yaml:"date_column" envconfig:"DATE_COLUMN" default:"DateTime" validate:"required"`
	Sheet      string `yaml:"sheet" envconfig:"SHEET"`
}

// Load loads configuration from environment variables, overlays the optional
// config file, and validates the result.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config from file: %w", err)
		}
		cfg = mergeConfigs(cfg, *fileCfg)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// configFilePath returns the config file location; SHELTER_CONFIG_FILE
// overrides the default config.yaml next to the working directory.
func configFilePath() string {
	if path := os.Getenv(envPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays non-empty file values onto the env-derived config,
// so an explicit file setting wins over env defaults.
func mergeConfigs(base, overlay Config) Config {
	if overlay.Logging.Level != "" {
		base.Logging.Level = overlay.Logging.Level
	}
	if overlay.Logging.Output != "" {
		base.Logging.Output = overlay.Logging.Output
	}
	if overlay.Logging.FilePath != "" {
		base.Logging.FilePath = overlay.Logging.FilePath
	}
	if overlay.Paths.DataDir != "" {
		base.Paths.DataDir = overlay.Paths.DataDir
	}
	if overlay.Paths.LogsDir != "" {
		base.Paths.LogsDir = overlay.Paths.LogsDir
	}
	if overlay.Dataset.DateColumn != "" {
		base.Dataset.DateColumn = overlay.Dataset.DateColumn
	}
	if overlay.Dataset.Sheet != "" {
		base.Dataset.Sheet = overlay.Dataset.Sheet
	}
	return base
}
