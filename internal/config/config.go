package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "atm.yaml"

// Config represents the top-level atm.yaml configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Export ExportConfig `yaml:"export"`
	Audit  AuditConfig  `yaml:"audit"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Prefix string `yaml:"prefix,omitempty"`
}

// ExportConfig controls where ledger files are written.
type ExportConfig struct {
	Dir string `yaml:"dir"` // relative print paths resolve here
}

// AuditConfig controls the per-step audit trail of scenario runs.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads an atm.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Export: ExportConfig{
			Dir: "exports",
		},
		Audit: AuditConfig{
			Enabled: false,
			Path:    "logs/audit.csv",
		},
	}
}
