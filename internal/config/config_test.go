package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
entities:
  - id: alp
    name: Labor
    aliases:
      - Australian Labor Party
  - id: grn
    name: Greens
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Analysis.WindowLengthDays != 7 {
		t.Errorf("Expected default window length 7, got %d", cfg.Analysis.WindowLengthDays)
	}
	if cfg.Analysis.SpikeBaselineDays != 3 {
		t.Errorf("Expected default baseline 3, got %d", cfg.Analysis.SpikeBaselineDays)
	}
	if cfg.Analysis.SpikeThresholdRatio != 1.2 {
		t.Errorf("Expected default threshold 1.2, got %.2f", cfg.Analysis.SpikeThresholdRatio)
	}
	if cfg.Analysis.PositiveWeight != 1.0 || cfg.Analysis.NegativeWeight != 1.0 {
		t.Error("Expected default sentiment weights of 1.0")
	}
	if cfg.Reports.RetentionDays != 90 {
		t.Errorf("Expected default retention 90, got %d", cfg.Reports.RetentionDays)
	}
	if cfg.Telegram.Enabled {
		t.Error("Telegram must be disabled by default")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging defaults: %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
analysis:
  window_length_days: 14
  spike_threshold_ratio: 1.5
logging:
  level: debug
  format: text
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Analysis.WindowLengthDays != 14 {
		t.Errorf("Expected window length 14, got %d", cfg.Analysis.WindowLengthDays)
	}
	if cfg.Analysis.SpikeThresholdRatio != 1.5 {
		t.Errorf("Expected threshold 1.5, got %.2f", cfg.Analysis.SpikeThresholdRatio)
	}
	if cfg.Analysis.SpikeBaselineDays != 3 {
		t.Error("Unset values must keep their defaults")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Unexpected logging config: %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidate_Failures(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeConfig(t, minimalConfig))
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no entities", func(c *Config) { c.Entities = nil }},
		{"blank entity id", func(c *Config) { c.Entities[0].ID = "" }},
		{"blank entity name", func(c *Config) { c.Entities[0].Name = "" }},
		{"duplicate entity id", func(c *Config) { c.Entities[1].ID = "alp" }},
		{"window length zero", func(c *Config) { c.Analysis.WindowLengthDays = 0 }},
		{"baseline days zero", func(c *Config) { c.Analysis.SpikeBaselineDays = 0 }},
		{"threshold at one", func(c *Config) { c.Analysis.SpikeThresholdRatio = 1.0 }},
		{"negative weight", func(c *Config) { c.Analysis.NegativeWeight = -1 }},
		{"blank raw dir", func(c *Config) { c.Reports.RawDir = "" }},
		{"blank out dir", func(c *Config) { c.Reports.OutDir = "" }},
		{"negative retention", func(c *Config) { c.Reports.RetentionDays = -1 }},
		{"telegram enabled without token", func(c *Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = "123" }},
		{"telegram enabled without chat id", func(c *Config) { c.Telegram.Enabled = true; c.Telegram.BotToken = "t" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "logfmt" }},
	}

	for _, c := range cases {
		cfg := base()
		c.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestEntityListAndAliasTable(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	entities := cfg.EntityList()
	if len(entities) != 2 {
		t.Fatalf("Expected 2 entities, got %d", len(entities))
	}
	if entities[0].ID != "alp" || entities[0].Name != "Labor" {
		t.Errorf("Unexpected first entity: %+v", entities[0])
	}

	aliases := cfg.AliasTable()
	if aliases["Australian Labor Party"] != "alp" {
		t.Errorf("Expected alias to map to alp, got %q", aliases["Australian Labor Party"])
	}
	if len(aliases) != 1 {
		t.Errorf("Expected 1 alias, got %d", len(aliases))
	}
}
