// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Paper threads one selected candidate through the pipeline stages. Each
// stage exclusively writes its own path field and may read the fields set by
// earlier stages; no stage clears a field written upstream. A paper whose
// required upstream field is empty is skipped by the current stage.
type Paper struct {
	Candidate `yaml:",inline"`

	// Rank is the 1-based position in the selection, descending by
	// composite score.
	Rank int `json:"rank" yaml:"rank"`

	// RetrievedPath is the local PDF file written by the retrieval stage.
	RetrievedPath string `json:"retrieved_path,omitempty" yaml:"retrieved_path,omitempty"`

	// ConvertedPath is the Markdown file written by the conversion stage.
	ConvertedPath string `json:"converted_path,omitempty" yaml:"converted_path,omitempty"`

	// AnalysisPath is the report file written by the analysis stage.
	AnalysisPath string `json:"analysis_path,omitempty" yaml:"analysis_path,omitempty"`

	// RetrievalDegraded records that the PDF came from the fallback
	// open-access location rather than arXiv.
	RetrievalDegraded bool `json:"retrieval_degraded,omitempty" yaml:"retrieval_degraded,omitempty"`

	// ConversionDegraded records that the Markdown holds only the abstract
	// because full text extraction failed.
	ConversionDegraded bool `json:"conversion_degraded,omitempty" yaml:"conversion_degraded,omitempty"`
}
