package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/vibewriter/internal/config"
	"github.com/KaramelBytes/vibewriter/internal/logging"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	debug        bool
	outputFormat string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "vibewriter",
	Short: "Vibe Writer: a local writing workspace with snapshots and AI assistance",
	Long: `Vibe Writer keeps projects, folders and rich-text documents in a local workspace.
Edits are versioned with automatic and manual snapshots, workspaces can be
exported and merged back in, and documents can be rewritten with OpenRouter or a
local Ollama-compatible runtime.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.vibewriter/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatText, "output format for listings: text, json, yaml or toon")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = logging.New(level, os.Stderr)

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	logger.Debug().Str("data_dir", cfg.DataDir).Str("storage", cfg.StorageDriver).Msg("config loaded")
}

// currentConfig returns the loaded config, loading it on demand.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// commandLogger is the logger shared by all commands.
func commandLogger() *log.Logger { return logger }
