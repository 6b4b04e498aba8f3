// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trendwatch/internal/fetch"
	"github.com/pdiddy/trendwatch/internal/logging"
	"github.com/pdiddy/trendwatch/internal/state"
	"github.com/pdiddy/trendwatch/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download PDFs for the current selection",
	Long: `Fetch downloads the PDF for each selected paper, trying arXiv first and
the open-access fallback location second. Papers whose PDF already exists
are skipped, so re-running the stage performs no network work for them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchStage(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func fetchStage(_ context.Context) error {
	cfg := pipelineConfig()

	log, logFile, err := logging.New("fetch", cfg.LogsDir)
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

	client := &http.Client{Timeout: cfg.Fetch.Timeout}
	result := fetch.FetchBatch(client, paperRefs(st.Papers), cfg.Fetch, out)

	if err := store.Save(st); err != nil {
		return err
	}

	log.Info("fetch complete",
		"downloaded", result.Downloaded, "skipped", result.Skipped, "failed", result.Failed)
	if result.AllFailed() {
		log.Error("no PDFs retrieved")
		return fmt.Errorf("no PDFs retrieved for any of %d papers", result.Total())
	}
	return nil
}

// paperRefs returns pointers into the slice so stages mutate the state in place.
func paperRefs(papers []types.Paper) []*types.Paper {
	refs := make([]*types.Paper, len(papers))
	for i := range papers {
		refs[i] = &papers[i]
	}
	return refs
}
