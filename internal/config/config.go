package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Labels  LabelsConfig  `yaml:"labels" envconfig:"LABELS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DataConfig describes the sensor data source
type DataConfig struct {
	// SourceFile is the semicolon-delimited readings file for the station.
	SourceFile string `yaml:"source_file" envconfig:"SOURCE_FILE" default:"data/readings.csv" validate:"required"`
	// StationName labels exports and the dashboard header.
	StationName string `yaml:"station_name" envconfig:"STATION_NAME" default:"Châtelet RER A"`
	// TimestampColumn is the header name of the date/time column.
	TimestampColumn string `yaml:"timestamp_column" envconfig:"TIMESTAMP_COLUMN" default:"date/heure" validate:"required"`
}

// LabelsConfig externalizes the locale-specific display names. Order is
// fixed Monday-first; only the strings are configurable.
type LabelsConfig struct {
	Weekdays []string `yaml:"weekdays" envconfig:"WEEKDAYS" validate:"omitempty,len=7"`
}

// DefaultWeekdayLabels is the Monday-first label set used when none is configured.
var DefaultWeekdayLabels = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayLabels returns the configured weekday names, falling back to the defaults.
func (l LabelsConfig) WeekdayLabels() []string {
	if len(l.Weekdays) == 7 {
		return l.Weekdays
	}
	return DefaultWeekdayLabels
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
func Load() (*Config, error) {
	return LoadFromFile(configFilePath())
}

// LoadFromFile loads configuration using the given YAML file when it exists.
func LoadFromFile(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("AQ", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence,
// file values fill fields the environment left unset).
func mergeConfigs(fileConfig, envConfig Config) Config {
	if fileConfig.Server.Port != 0 && os.Getenv("AQ_SERVER_PORT") == "" {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Data.SourceFile != "" && os.Getenv("AQ_DATA_SOURCE_FILE") == "" {
		envConfig.Data.SourceFile = fileConfig.Data.SourceFile
	}
	if fileConfig.Data.StationName != "" && os.Getenv("AQ_DATA_STATION_NAME") == "" {
		envConfig.Data.StationName = fileConfig.Data.StationName
	}
	if fileConfig.Data.TimestampColumn != "" && os.Getenv("AQ_DATA_TIMESTAMP_COLUMN") == "" {
		envConfig.Data.TimestampColumn = fileConfig.Data.TimestampColumn
	}
	if fileConfig.Logging.Level != "" && os.Getenv("AQ_LOGGING_LEVEL") == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Output != "" && os.Getenv("AQ_LOGGING_OUTPUT") == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && os.Getenv("AQ_LOGGING_FILE_PATH") == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if len(fileConfig.Labels.Weekdays) == 7 {
		envConfig.Labels.Weekdays = fileConfig.Labels.Weekdays
	}
	return envConfig
}

// loadFromFile loads configuration from a YAML file
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

// configFilePath returns the config file location, overridable via AQ_CONFIG_FILE.
func configFilePath() string {
	if path := os.Getenv("AQ_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// validate checks configuration constraints with go-playground/validator.
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive when enabled")
	}
	return nil
}
