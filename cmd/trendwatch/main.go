// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trendwatch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trendwatch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the trendwatch CLI.
var rootCmd = &cobra.Command{
	Use:   "trendwatch",
	Short: "Weekly trending AI paper review pipeline",
	Long: `trendwatch selects the week's trending AI research papers from multiple
sources, ranks them by a weighted composite score, and carries each selected
paper through retrieval, conversion, analysis, and wiki publication.

Each pipeline stage is a subcommand: discover, fetch, convert, analyze, and
publish. The run command executes all stages in sequence, the way the weekly
cron driver does. Every stage is safe to re-run; satisfied papers are skipped.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./trendwatch.yaml or ~/.config/trendwatch/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "base directory for pipeline state and artifacts (default: data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trendwatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "trendwatch"))
		}
	}

	viper.SetEnvPrefix("TRENDWATCH")
	viper.AutomaticEnv()

	setDefaults()

	if dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir"); dataDir != "" {
		viper.Set("data_dir", dataDir)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
