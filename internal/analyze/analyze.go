// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze sends converted paper text to an external analysis service
// and persists its reports. The service itself is opaque: text in, report out.
package analyze

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/trendwatch/pkg/types"
)

const analysisDir = "analysis"

// defaultMaxChars caps the text sent to the analysis backend.
const defaultMaxChars = 80000

// truncationMarker is appended whenever the input text is cut at the cap.
const truncationMarker = "\n\n[content truncated for analysis]"

// Request is the input contract for one analysis invocation.
type Request struct {
	ID    string
	Title string
	Text  string
}

// Backend performs the text-to-text analysis. Implementations may shell out
// to a CLI, call an HTTP API, or be a test double.
type Backend interface {
	Analyze(ctx context.Context, req Request) (string, error)
}

// BatchResult holds the outcome of a batch analysis run.
type BatchResult struct {
	Analyzed int
	Skipped  int
	Failed   int
}

// Total returns the total number of papers processed.
func (r BatchResult) Total() int {
	return r.Analyzed + r.Skipped + r.Failed
}

// AnalyzePaper runs the backend for one paper and writes the report to
// dataDir/analysis/<id>.md. Papers without converted text are skipped, and
// an existing non-empty report satisfies the stage without invoking the
// backend at all.
func AnalyzePaper(ctx context.Context, backend Backend, paper *types.Paper, cfg types.AnalysisConfig, w io.Writer) (skipped bool, err error) {
	if paper.ConvertedPath == "" {
		fmt.Fprintf(w, "skipped: %s (no converted text)\n", paper.ID)
		return true, nil
	}

	outDir := filepath.Join(cfg.DataDir, analysisDir)
	dest := filepath.Join(outDir, paper.ID+".md")

	if info, statErr := os.Stat(dest); statErr == nil && info.Size() > 0 {
		fmt.Fprintf(w, "skipped: %s (analysis already exists)\n", paper.ID)
		paper.AnalysisPath = dest
		return true, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", outDir, err)
	}

	data, err := os.ReadFile(paper.ConvertedPath)
	if err != nil {
		return false, fmt.Errorf("reading converted text: %w", err)
	}

	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	text, truncated := capText(string(data), maxChars)
	if truncated {
		fmt.Fprintf(w, "  truncated %s to %d chars\n", paper.ID, maxChars)
	}

	fmt.Fprintf(w, "analyzing: %s\n", paper.ID)
	report, err := backend.Analyze(ctx, Request{ID: paper.ID, Title: paper.Title, Text: text})
	if err != nil {
		return false, fmt.Errorf("analysis of %s: %w", paper.ID, err)
	}
	if report == "" {
		return false, fmt.Errorf("analysis of %s produced empty output", paper.ID)
	}

	if err := os.WriteFile(dest, []byte(report), 0o644); err != nil {
		return false, fmt.Errorf("writing analysis for %s: %w", paper.ID, err)
	}
	paper.AnalysisPath = dest
	return false, nil
}

// AnalyzeBatch processes every paper in rank order, printing per-item status
// and a summary. Failures are per-paper skips, never fatal to the run.
func AnalyzeBatch(ctx context.Context, backend Backend, papers []*types.Paper, cfg types.AnalysisConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range papers {
		wasSkipped, err := AnalyzePaper(ctx, backend, p, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", p.ID, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Analyzed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d analyzed, %d skipped, %d failed (total: %d)\n",
		result.Analyzed, result.Skipped, result.Failed, result.Total())
	return result
}

// capText truncates text to maxChars runes, appending the truncation marker
// when a cut was made.
func capText(text string, maxChars int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text, false
	}
	return string(runes[:maxChars]) + truncationMarker, true
}
