package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xxxxxthhh/SignalFeed/internal/config"
	"github.com/xxxxxthhh/SignalFeed/internal/debuglog"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

var (
	flagConfig   string
	flagDB       string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "signalfeed",
	Short: "Terminal feed reader with faceted filtering",
	Long: `signalfeed aggregates RSS/Atom feeds into a filterable terminal dashboard,
with AI summaries, full-text search, and a static site export.

Run without a subcommand to launch the browser.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error, off)")

	registerBrowseFlags(rootCmd)

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("signalfeed %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		path := filepath.Join(home, ".config", "signalfeed", "config.toml")
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnvironment is the shared setup every subcommand runs: config, logging,
// store.
func loadEnvironment() (*config.Config, *storage.Store, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(flagLogLevel)); err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, store, nil
}

// userConfigDir holds feeds.toml overrides next to config.toml.
func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "signalfeed")
}
