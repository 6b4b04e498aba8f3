// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trendwatch/internal/logging"
	"github.com/pdiddy/trendwatch/internal/publish"
	"github.com/pdiddy/trendwatch/internal/runner"
	"github.com/pdiddy/trendwatch/internal/state"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the weekly review page to the wiki",
	Long: `Publish builds the weekly review page from the current selection and
pushes it to the configured GitHub wiki. Papers that completed analysis are
then recorded in history so later runs never reprocess them; papers that
only made it partway stay eligible for a future week.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishStage(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func publishStage(ctx context.Context) error {
	cfg := pipelineConfig()

	log, logFile, err := logging.New("publish", cfg.LogsDir)
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

	sink, err := publish.NewGitWikiSink(cfg.Publish.Repo, cfg.DataDir, runner.ExecRunner{}, out)
	if err != nil {
		return err
	}

	result, err := publish.Run(ctx, sink, st.Papers, time.Now(), out)
	if err != nil {
		log.Error("publication failed", "error", err)
		return err
	}

	for _, id := range result.Published {
		st.History[id] = true
	}
	if err := store.Save(st); err != nil {
		return err
	}

	log.Info("publish complete", "page", result.PageName, "published", len(result.Published))
	return nil
}
