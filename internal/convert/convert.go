// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns retrieved PDFs into Markdown text, falling back to
// the paper abstract when text extraction fails.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/trendwatch/pkg/types"
)

const markdownDir = "markdown"

// minMarkdownSize is the threshold below which an existing output file is
// considered a failed artifact rather than a satisfied conversion.
const minMarkdownSize = 100

// Converter transforms a PDF file into Markdown text.
type Converter interface {
	// Convert reads a PDF at pdfPath and returns the Markdown content.
	Convert(pdfPath string) (string, error)
}

// Status is the per-paper outcome of a conversion attempt.
type Status int

const (
	StatusConverted Status = iota
	StatusSkipped
	StatusDegraded
	StatusFailed
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Degraded  int
	Failed    int
}

// Total returns the total number of papers processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Degraded + r.Failed
}

// ConvertPaper produces dataDir/markdown/<id>.md for one paper. An existing
// non-trivial output file satisfies the stage without any work. When the
// paper has no retrieved PDF, or the converter fails or returns empty text,
// the abstract is written as a degraded representation instead. Only a
// missing abstract on top of that leaves the paper unconverted.
func ConvertPaper(c Converter, paper *types.Paper, cfg types.ConvertConfig, w io.Writer) Status {
	outDir := filepath.Join(cfg.DataDir, markdownDir)
	dest := filepath.Join(outDir, paper.ID+".md")

	if info, err := os.Stat(dest); err == nil && info.Size() > minMarkdownSize {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", paper.ID)
		paper.ConvertedPath = dest
		return StatusSkipped
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", paper.ID, err)
		return StatusFailed
	}

	if paper.RetrievedPath != "" {
		text, err := c.Convert(paper.RetrievedPath)
		if err == nil && text != "" {
			if writeErr := os.WriteFile(dest, []byte(text), 0o644); writeErr != nil {
				fmt.Fprintf(w, "failed:  %s (%v)\n", paper.ID, writeErr)
				return StatusFailed
			}
			fmt.Fprintf(w, "converted: %s (%d chars)\n", paper.ID, len(text))
			paper.ConvertedPath = dest
			return StatusConverted
		}
		if err != nil {
			fmt.Fprintf(w, "  warning: extraction failed for %s: %v\n", paper.ID, err)
		}
	}

	// Degraded representation: abstract only.
	if paper.Abstract == "" {
		fmt.Fprintf(w, "failed:  %s (no PDF text and no abstract)\n", paper.ID)
		return StatusFailed
	}
	content := fmt.Sprintf("# %s\n\n## Abstract\n\n%s\n", paper.Title, paper.Abstract)
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", paper.ID, err)
		return StatusFailed
	}
	fmt.Fprintf(w, "degraded: %s (abstract fallback)\n", paper.ID)
	paper.ConvertedPath = dest
	paper.ConversionDegraded = true
	return StatusDegraded
}

// ConvertBatch processes every paper, printing per-item status and a
// summary. Failures are per-paper and never abort the loop.
func ConvertBatch(c Converter, papers []*types.Paper, cfg types.ConvertConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range papers {
		switch ConvertPaper(c, p, cfg, w) {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusDegraded:
			result.Degraded++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d degraded, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Degraded, result.Failed, result.Total())
	return result
}
