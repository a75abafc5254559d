package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"poltrends/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Entities []EntityConfig `mapstructure:"entities"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Reports  ReportsConfig  `mapstructure:"reports"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// EntityConfig declares one tracked entity and the raw names that resolve to it
type EntityConfig struct {
	ID      string   `mapstructure:"id"`
	Name    string   `mapstructure:"name"`
	Aliases []string `mapstructure:"aliases"`
}

// AnalysisConfig holds window and spike detection parameters
type AnalysisConfig struct {
	WindowLengthDays    int     `mapstructure:"window_length_days"`
	SpikeBaselineDays   int     `mapstructure:"spike_baseline_days"`
	SpikeThresholdRatio float64 `mapstructure:"spike_threshold_ratio"`
	PositiveWeight      float64 `mapstructure:"positive_weight"`
	NegativeWeight      float64 `mapstructure:"negative_weight"`
}

// ReportsConfig holds raw report input and narrative output locations
type ReportsConfig struct {
	RawDir        string `mapstructure:"raw_dir"`
	OutDir        string `mapstructure:"out_dir"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// StorageConfig holds record store persistence configuration
type StorageConfig struct {
	FilePath string `mapstructure:"file_path"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("POLTRENDS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Analysis defaults
	v.SetDefault("analysis.window_length_days", 7)
	v.SetDefault("analysis.spike_baseline_days", 3)
	v.SetDefault("analysis.spike_threshold_ratio", 1.2)
	v.SetDefault("analysis.positive_weight", 1.0)
	v.SetDefault("analysis.negative_weight", 1.0)

	// Reports defaults
	v.SetDefault("reports.raw_dir", "./data/raw")
	v.SetDefault("reports.out_dir", "./data/processed")
	v.SetDefault("reports.retention_days", 90)

	// Storage defaults
	v.SetDefault("storage.file_path", "./data/records.json")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if len(c.Entities) == 0 {
		return fmt.Errorf("entities must contain at least one entity")
	}
	seen := make(map[string]bool, len(c.Entities))
	for _, e := range c.Entities {
		if e.ID == "" {
			return fmt.Errorf("entity id is required")
		}
		if e.Name == "" {
			return fmt.Errorf("entity %q: name is required", e.ID)
		}
		if seen[e.ID] {
			return fmt.Errorf("entity id %q is duplicated", e.ID)
		}
		seen[e.ID] = true
	}

	if c.Analysis.WindowLengthDays < 1 {
		return fmt.Errorf("analysis.window_length_days must be at least 1")
	}
	if c.Analysis.SpikeBaselineDays < 1 {
		return fmt.Errorf("analysis.spike_baseline_days must be at least 1")
	}
	if c.Analysis.SpikeThresholdRatio <= 1.0 {
		return fmt.Errorf("analysis.spike_threshold_ratio must be greater than 1.0")
	}
	if c.Analysis.PositiveWeight < 0 || c.Analysis.NegativeWeight < 0 {
		return fmt.Errorf("analysis sentiment weights must not be negative")
	}

	if c.Reports.RawDir == "" {
		return fmt.Errorf("reports.raw_dir is required")
	}
	if c.Reports.OutDir == "" {
		return fmt.Errorf("reports.out_dir is required")
	}
	if c.Reports.RetentionDays < 0 {
		return fmt.Errorf("reports.retention_days must not be negative")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// EntityList returns the configured entities as domain models.
func (c *Config) EntityList() []models.Entity {
	entities := make([]models.Entity, 0, len(c.Entities))
	for _, e := range c.Entities {
		entities = append(entities, models.Entity{ID: e.ID, Name: e.Name})
	}
	return entities
}

// AliasTable returns the raw-name to entity-ID mapping used by the ingestor.
func (c *Config) AliasTable() map[string]string {
	aliases := make(map[string]string)
	for _, e := range c.Entities {
		for _, a := range e.Aliases {
			aliases[a] = e.ID
		}
	}
	return aliases
}
