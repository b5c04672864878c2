package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/vibewriter/internal/config"
	"github.com/KaramelBytes/vibewriter/internal/storage"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Vibe Writer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if done, err := printStructured(c); done {
			return err
		}
		fmt.Printf("data_dir: %s\n", c.DataDir)
		fmt.Printf("storage_driver: %s\n", c.StorageDriver)
		fmt.Printf("log_level: %s\n", c.LogLevel)
		fmt.Printf("default_model: %s\n", c.DefaultModel)
		fmt.Printf("local_model: %s\n", c.LocalModel)
		fmt.Printf("max_tokens: %d\n", c.MaxTokens)
		fmt.Printf("temperature: %.3f\n", c.Temperature)
		fmt.Printf("http_timeout_sec: %d\n", c.HTTPTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", c.RetryMaxAttempts)
		fmt.Printf("retry_base_delay_ms: %d\n", c.RetryBaseDelayMs)
		fmt.Printf("retry_max_delay_ms: %d\n", c.RetryMaxDelayMs)
		fmt.Printf("ollama_host: %s\n", c.OllamaHost)
		fmt.Printf("ollama_timeout_sec: %d\n", c.OllamaTimeoutSec)
		fmt.Printf("max_snapshots_per_document: %d\n", c.MaxSnapshotsPerDocument)
		fmt.Printf("auto_snapshot_interval_sec: %d\n", c.AutoSnapshotIntervalSec)
		fmt.Printf("auto_snapshot_min_chars: %d\n", c.AutoSnapshotMinChars)
		fmt.Printf("safety_backup_limit: %d\n", c.SafetyBackupLimit)
		return nil
	},
}

func positiveInt(key, val string) (int, error) {
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid int for %s: %v", key, val)
	}
	return i, nil
}

// setConfigValue assigns one key of c from its string form.
func setConfigValue(c *cfgpkg.Global, key, val string) error {
	var err error
	switch key {
	case "data_dir":
		c.DataDir = val
	case "storage_driver":
		switch val {
		case storage.DriverFile, storage.DriverSQLite, storage.DriverBadger:
			c.StorageDriver = val
		default:
			return fmt.Errorf("invalid storage_driver: %s (use file, sqlite or badger)", val)
		}
	case "log_level":
		c.LogLevel = val
	case "default_model":
		c.DefaultModel = val
	case "local_model":
		c.LocalModel = val
	case "ollama_host":
		c.OllamaHost = val
	case "temperature":
		f, perr := strconv.ParseFloat(val, 64)
		if perr != nil || f < 0 || f > 2 {
			return fmt.Errorf("invalid float for temperature: %v (0 to 2)", val)
		}
		c.Temperature = f
	case "max_tokens":
		c.MaxTokens, err = positiveInt(key, val)
	case "http_timeout_sec":
		c.HTTPTimeoutSec, err = positiveInt(key, val)
	case "retry_max_attempts":
		c.RetryMaxAttempts, err = positiveInt(key, val)
	case "retry_base_delay_ms":
		c.RetryBaseDelayMs, err = positiveInt(key, val)
	case "retry_max_delay_ms":
		c.RetryMaxDelayMs, err = positiveInt(key, val)
	case "ollama_timeout_sec":
		c.OllamaTimeoutSec, err = positiveInt(key, val)
	case "max_snapshots_per_document":
		c.MaxSnapshotsPerDocument, err = positiveInt(key, val)
	case "auto_snapshot_interval_sec":
		c.AutoSnapshotIntervalSec, err = positiveInt(key, val)
	case "auto_snapshot_min_chars":
		c.AutoSnapshotMinChars, err = positiveInt(key, val)
	case "safety_backup_limit":
		c.SafetyBackupLimit, err = positiveInt(key, val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
