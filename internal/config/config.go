package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/storage"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. VIBEWRITER_DATA_DIR.
const EnvPrefix = "VIBEWRITER"

// Global configuration structure.
type Global struct {
	DataDir       string `mapstructure:"data_dir" yaml:"data_dir"`
	StorageDriver string `mapstructure:"storage_driver" yaml:"storage_driver"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`

	DefaultModel string  `mapstructure:"default_model" yaml:"default_model"`
	LocalModel   string  `mapstructure:"local_model" yaml:"local_model"`
	MaxTokens    int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature" yaml:"temperature"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Local runtime bridge (Ollama-compatible)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`

	// Snapshot policy
	MaxSnapshotsPerDocument int `mapstructure:"max_snapshots_per_document" yaml:"max_snapshots_per_document"`
	AutoSnapshotIntervalSec int `mapstructure:"auto_snapshot_interval_sec" yaml:"auto_snapshot_interval_sec"`
	AutoSnapshotMinChars    int `mapstructure:"auto_snapshot_min_chars" yaml:"auto_snapshot_min_chars"`
	SafetyBackupLimit       int `mapstructure:"safety_backup_limit" yaml:"safety_backup_limit"`
}

// Policy returns the snapshot policy configured for the store.
func (c *Global) Policy() workspace.Policy {
	p := workspace.DefaultPolicy()
	if c.MaxSnapshotsPerDocument > 0 {
		p.MaxSnapshotsPerDocument = c.MaxSnapshotsPerDocument
	}
	if c.AutoSnapshotIntervalSec > 0 {
		p.AutoSnapshotInterval = time.Duration(c.AutoSnapshotIntervalSec) * time.Second
	}
	if c.AutoSnapshotMinChars > 0 {
		p.AutoSnapshotMinTextLength = c.AutoSnapshotMinChars
	}
	return p
}

// Storage returns the backend configuration.
func (c *Global) Storage() storage.Config {
	return storage.Config{Driver: c.StorageDriver, Dir: c.DataDir, SafetyBackupLimit: c.SafetyBackupLimit}
}

// Dir returns ~/.vibewriter.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".vibewriter"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.vibewriter/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	policy := workspace.DefaultPolicy()
	v.SetDefault("data_dir", "")
	v.SetDefault("storage_driver", storage.DriverFile)
	v.SetDefault("log_level", "warn")
	v.SetDefault("default_model", "google/gemini-2.5-pro")
	v.SetDefault("local_model", "llama3.1:8b-instruct")
	v.SetDefault("max_tokens", 4096)
	v.SetDefault("temperature", 0.7)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Ollama defaults
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_timeout_sec", 60)
	v.SetDefault("max_snapshots_per_document", policy.MaxSnapshotsPerDocument)
	v.SetDefault("auto_snapshot_interval_sec", int(policy.AutoSnapshotInterval/time.Second))
	v.SetDefault("auto_snapshot_min_chars", policy.AutoSnapshotMinTextLength)
	v.SetDefault("safety_backup_limit", workspace.MaxSafetyBackups)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DataDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.DataDir = filepath.Join(dir, "data")
	}
	return &c, nil
}
