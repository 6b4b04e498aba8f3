// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the trendwatch pipeline.
package types

import "time"

// Candidate represents one trending paper discovered from the configured
// sources. Candidates sharing an ID are merged before scoring, so a single
// Candidate may carry contributions from several sources.
type Candidate struct {
	// ID is the canonical arXiv identifier (e.g. "2401.07041"). It is the
	// unique key for cross-source merging and for history deduplication.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as reported by the first source that found it.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract or summary. Also serves as the degraded
	// conversion output when PDF text extraction fails.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Published is the publication or preprint date, when a source reported one.
	Published time.Time `json:"published" yaml:"published"`

	// AltPDFURL is an open-access PDF location reported by a source. The
	// retrieval stage uses it as the fallback when the canonical arXiv
	// location fails.
	AltPDFURL string `json:"alt_pdf_url,omitempty" yaml:"alt_pdf_url,omitempty"`

	// RawMetrics maps source name to the raw popularity metric that source
	// reported (upvotes, citation count). Sources that did not return this
	// paper are absent.
	RawMetrics map[string]int `json:"raw_metrics" yaml:"raw_metrics"`

	// SourceScores maps source name to the normalized [0,1] popularity score
	// derived from RawMetrics. Set by the merge step.
	SourceScores map[string]float64 `json:"source_scores" yaml:"source_scores"`

	// CompositeScore is the weighted sum of normalized source scores used for
	// ranking. Set by the merge step; zero until then.
	CompositeScore float64 `json:"composite_score" yaml:"composite_score"`
}
