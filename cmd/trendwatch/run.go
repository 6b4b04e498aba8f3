// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full weekly pipeline",
	Long: `Run executes discover, fetch, convert, analyze, and publish in sequence,
aborting on the first failed stage. Per-paper problems inside a stage are
skips, not failures; a stage fails only when it has nothing at all to hand
to the next one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// pipelineStage pairs a stage name with its entry point for sequential execution.
type pipelineStage struct {
	name string
	fn   func(context.Context) error
}

func runPipeline(ctx context.Context) error {
	stages := []pipelineStage{
		{"discover", discoverStage},
		{"fetch", fetchStage},
		{"convert", convertStage},
		{"analyze", analyzeStage},
		{"publish", publishStage},
	}

	start := time.Now()
	for _, stage := range stages {
		fmt.Fprintf(os.Stdout, "==> %s\n", stage.name)
		stageStart := time.Now()
		if err := stage.fn(ctx); err != nil {
			fmt.Fprintf(os.Stdout, "==> %s FAILED after %s: %v\n", stage.name, time.Since(stageStart).Round(time.Millisecond), err)
			return fmt.Errorf("stage %s failed: %w", stage.name, err)
		}
		fmt.Fprintf(os.Stdout, "==> %s ok (%s)\n", stage.name, time.Since(stageStart).Round(time.Millisecond))
	}
	fmt.Fprintf(os.Stdout, "\nPipeline complete in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
