// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trendwatch/internal/discover"
	"github.com/pdiddy/trendwatch/internal/logging"
	"github.com/pdiddy/trendwatch/internal/state"
	"github.com/pdiddy/trendwatch/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Select this week's trending papers from the configured sources",
	Long: `Discover queries the trending sources (HuggingFace daily papers,
Semantic Scholar), normalizes and merges their popularity metrics into a
weighted composite score, filters out papers already published in earlier
runs, and saves the top-ranked selection as the input for the rest of
the pipeline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return discoverStage(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func discoverStage(ctx context.Context) error {
	cfg := pipelineConfig()

	log, logFile, err := logging.New("discover", cfg.LogsDir)
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

	log.Info("fetching papers",
		"lookback_days", cfg.Discovery.LookbackDays,
		"count", cfg.Discovery.Count,
		"history", len(st.History))

	client := &http.Client{Timeout: cfg.Discovery.Timeout}
	selected, err := discover.Select(ctx, enabledSources(cfg.Discovery, client), cfg.Discovery, st.History, out)
	if err != nil {
		log.Error("discovery failed", "error", err)
		return err
	}

	st.Papers = discover.ToPapers(selected)
	if err := store.Save(st); err != nil {
		return err
	}

	discover.FormatSelection(selected, out)
	log.Info("selection saved", "papers", len(selected))
	return nil
}

// enabledSources builds the configured source list. Order matters only for
// log output; scoring is order-independent.
func enabledSources(cfg types.DiscoveryConfig, client *http.Client) []discover.Source {
	var sources []discover.Source
	if cfg.Sources["huggingface"].Enabled {
		sources = append(sources, &discover.HuggingFaceSource{Client: client})
	}
	if sc := cfg.Sources["semantic_scholar"]; sc.Enabled {
		sources = append(sources, &discover.SemanticScholarSource{Client: client, APIKey: sc.APIKey})
	}
	return sources
}
