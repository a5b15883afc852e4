package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rixhabh/sanskritparse/cache"
)

// Config is the full configuration for the sanskritparse CLI.
type Config struct {
	// Redis configures the parse cache. Unset fields are resolved by the
	// cache itself from REDIS_HOST / REDIS_PORT / REDIS_PASSWORD and
	// built-in defaults, so a YAML value here always wins.
	Redis cache.Config `yaml:"redis"`

	// Log configures the zap logger.
	Log LogConfig `yaml:"log"`

	// Dataset configures JSONL output and hub upload.
	Dataset DatasetConfig `yaml:"dataset"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format: console or json.
	Format string `yaml:"format"`
}

// DatasetConfig configures where parsed corpora live and where they are
// published.
type DatasetConfig struct {
	// Dir holds source texts and generated JSONL files.
	Dir string `yaml:"dir"`
	// RepoID is the Hugging Face dataset repository.
	RepoID string `yaml:"repo_id"`
	// Token authenticates uploads; HF_TOKEN overrides when unset.
	Token string `yaml:"token"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Dataset: DatasetConfig{
			Dir:    "data",
			RepoID: "rixhabh/sanskrit-literature",
		},
	}
}

// Load resolves configuration in priority order: built-in defaults, then the
// YAML file at path (skipped when path is empty), then environment
// variables for the ambient settings (LOG_LEVEL, LOG_FORMAT, HF_TOKEN).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if cfg.Dataset.Token == "" {
		cfg.Dataset.Token = os.Getenv("HF_TOKEN")
	}
}
