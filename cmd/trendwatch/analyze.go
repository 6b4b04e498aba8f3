// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trendwatch/internal/analyze"
	"github.com/pdiddy/trendwatch/internal/logging"
	"github.com/pdiddy/trendwatch/internal/runner"
	"github.com/pdiddy/trendwatch/internal/state"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the external analysis command over the converted papers",
	Long: `Analyze pipes each paper's converted text (capped at analysis.max_chars)
into the configured analysis command and saves its report. Papers whose
report already exists are skipped without invoking the command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyzeStage(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyzeStage(ctx context.Context) error {
	cfg := pipelineConfig()

	log, logFile, err := logging.New("analyze", cfg.LogsDir)
	if err != nil {
		return err
	}
	defer logFile.Close()
	out := io.MultiWriter(os.Stdout, logFile)

	store, err := state.New(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Load()
	if err != nil {
		return err
	}
	if len(st.Papers) == 0 {
		return fmt.Errorf("no selection found: run discover first")
	}

	backend, err := analyze.NewCommandBackend(cfg.Analysis, runner.ExecRunner{})
	if err != nil {
		return err
	}

	result := analyze.AnalyzeBatch(ctx, backend, paperRefs(st.Papers), cfg.Analysis, out)

	if err := store.Save(st); err != nil {
		return err
	}

	log.Info("analyze complete",
		"analyzed", result.Analyzed, "skipped", result.Skipped, "failed", result.Failed)
	return nil
}
