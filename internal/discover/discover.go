// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover queries trending-paper sources, merges and scores
// candidates across them, and selects the weekly top-K.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pdiddy/trendwatch/pkg/types"
)

// ErrNoCandidates is returned when every configured source is unreachable or
// returned zero candidates. It is the only run-fatal discovery condition.
var ErrNoCandidates = errors.New("no candidates available from any source")

// RawCandidate is one paper as reported by a single source, before
// normalization and cross-source merging.
type RawCandidate struct {
	ID        string
	Title     string
	Abstract  string
	Metric    int
	AltPDFURL string
	Published time.Time
}

// Source queries a single trending or citation API. Each source (HuggingFace
// daily papers, Semantic Scholar) implements this interface.
type Source interface {
	Name() string
	Trending(ctx context.Context, cfg types.DiscoveryConfig, w io.Writer) ([]RawCandidate, error)
}

// Select runs discovery end to end: query every source, normalize each
// source's metric to [0,1] by that source's maximum, merge candidates by ID,
// compute weighted composite scores, drop papers already in history, and
// return the top cfg.Count candidates ordered descending by score.
//
// A source failure is downgraded to a warning; the source simply contributes
// zero candidates. Short supply after filtering returns everything available
// rather than an error.
func Select(ctx context.Context, sources []Source, cfg types.DiscoveryConfig, history map[string]bool, w io.Writer) ([]types.Candidate, error) {
	merged := make(map[string]*types.Candidate)
	var order []string

	anyCandidates := false
	for _, src := range sources {
		raw, err := src.Trending(ctx, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "warning: source %s failed: %v\n", src.Name(), err)
			continue
		}
		if len(raw) == 0 {
			fmt.Fprintf(w, "warning: source %s returned no candidates\n", src.Name())
			continue
		}
		anyCandidates = true
		fmt.Fprintf(w, "%s: %d candidates\n", src.Name(), len(raw))

		weight := cfg.Sources[src.Name()].Weight
		mergeSource(merged, &order, src.Name(), raw, weight)
	}

	if !anyCandidates {
		return nil, ErrNoCandidates
	}

	var fresh []types.Candidate
	for _, id := range order {
		if history[id] {
			continue
		}
		fresh = append(fresh, *merged[id])
	}
	if len(fresh) == 0 {
		return nil, fmt.Errorf("no new papers to process: all %d candidates already in history", len(order))
	}

	// Descending by composite score; equal scores fall back to the
	// lexicographically smaller ID so the ordering is deterministic across
	// runs regardless of source response order.
	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].CompositeScore != fresh[j].CompositeScore {
			return fresh[i].CompositeScore > fresh[j].CompositeScore
		}
		return fresh[i].ID < fresh[j].ID
	})

	if cfg.Count > 0 && len(fresh) > cfg.Count {
		fresh = fresh[:cfg.Count]
	}
	return fresh, nil
}

// mergeSource normalizes one source's metrics and folds its candidates into
// the merged set. A candidate already present accumulates this source's
// normalized score; a new candidate starts with only this source's entry, so
// absent sources implicitly contribute zero.
func mergeSource(merged map[string]*types.Candidate, order *[]string, name string, raw []RawCandidate, weight float64) {
	maxMetric := 0
	for _, r := range raw {
		if r.Metric > maxMetric {
			maxMetric = r.Metric
		}
	}

	for _, r := range raw {
		norm := 0.0
		if maxMetric > 0 {
			norm = float64(r.Metric) / float64(maxMetric)
		}

		c, ok := merged[r.ID]
		if !ok {
			c = &types.Candidate{
				ID:           r.ID,
				Title:        r.Title,
				Abstract:     r.Abstract,
				Published:    r.Published,
				RawMetrics:   make(map[string]int),
				SourceScores: make(map[string]float64),
			}
			merged[r.ID] = c
			*order = append(*order, r.ID)
		}

		// Fill fields the first source left empty.
		if c.Title == "" {
			c.Title = r.Title
		}
		if c.Abstract == "" {
			c.Abstract = r.Abstract
		}
		if c.Published.IsZero() {
			c.Published = r.Published
		}
		if c.AltPDFURL == "" && r.AltPDFURL != "" {
			c.AltPDFURL = r.AltPDFURL
		}

		c.RawMetrics[name] = r.Metric
		c.SourceScores[name] = norm
		c.CompositeScore += norm * weight
	}
}

// ToPapers converts a selection into ranked pipeline records.
func ToPapers(selected []types.Candidate) []types.Paper {
	papers := make([]types.Paper, len(selected))
	for i, c := range selected {
		papers[i] = types.Paper{Candidate: c, Rank: i + 1}
	}
	return papers
}

// FormatSelection writes a one-line summary per selected candidate to w.
func FormatSelection(selected []types.Candidate, w io.Writer) {
	for i, c := range selected {
		fmt.Fprintf(w, "%d. [%.3f] %s  %s\n", i+1, c.CompositeScore, c.ID, c.Title)
	}
}
