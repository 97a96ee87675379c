// Package config provides configuration management for the correlation
// engine.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all engine configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RedisConfig holds the optional result-cache connection settings. An empty
// Addr disables caching.
type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	PasswordEnv string        `yaml:"password_env"`
	DB          int           `yaml:"db"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// AnalysisConfig holds correlation knobs.
type AnalysisConfig struct {
	// TaxonomyRulesPath points at a JSON rule file; empty selects the
	// built-in table.
	TaxonomyRulesPath string `yaml:"taxonomy_rules_path"`

	// MinSupport is the minimum document frequency for a common point.
	MinSupport int `yaml:"min_support"`

	// TopN caps the ranked common-point output.
	TopN int `yaml:"top_n"`

	// DefaultKeywords is used when a batch carries no keyword list.
	DefaultKeywords []string `yaml:"default_keywords"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Load reads configuration from a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:        "",
			PasswordEnv: "REDIS_PASSWORD",
			DB:          0,
			CacheTTL:    15 * time.Minute,
		},
		Analysis: AnalysisConfig{
			TaxonomyRulesPath: "",
			MinSupport:        2,
			TopN:              40,
			DefaultKeywords:   []string{"phishing", "ransomware", "exfiltration", "leak"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
