// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trendwatch/internal/convert"
	"github.com/pdiddy/trendwatch/internal/logging"
	"github.com/pdiddy/trendwatch/internal/state"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Extract Markdown text from the retrieved PDFs",
	Long: `Convert extracts plain text from each retrieved PDF. When extraction
fails or no PDF was retrieved, the paper's abstract is written instead as a
degraded representation so the analysis stage still receives something.
Existing output files are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertStage(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func convertStage(_ context.Context) error {
	cfg := pipelineConfig()

	log, logFile, err := logging.New("convert", cfg.LogsDir)
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

	result := convert.ConvertBatch(convert.PDFTextConverter{}, paperRefs(st.Papers), cfg.Convert, out)

	if err := store.Save(st); err != nil {
		return err
	}

	log.Info("convert complete",
		"converted", result.Converted, "skipped", result.Skipped,
		"degraded", result.Degraded, "failed", result.Failed)
	return nil
}
