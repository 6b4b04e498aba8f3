package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "trendwatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig holds per-source discovery settings. Weights are expected to
// sum to 1 across enabled sources; the engine does not enforce this, it is a
// configuration responsibility.
type SourceConfig struct {
	// Enabled controls whether the source is queried.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Weight is the source's share of the composite score.
	Weight float64 `json:"weight" yaml:"weight"`

	// APIKey is an optional authentication key for the source's API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// DiscoveryConfig holds settings for the discovery and scoring stage.
type DiscoveryConfig struct {
	HTTPConfig `yaml:",inline"`

	// Count is the number of papers to select per run (K).
	Count int `json:"count" yaml:"count"`

	// LookbackDays is the trending window in days.
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`

	// Query is the topic query sent to citation-search sources
	// (default "artificial intelligence").
	Query string `json:"query" yaml:"query"`

	// Sources maps source name to its configuration.
	Sources map[string]SourceConfig `json:"sources" yaml:"sources"`
}

// FetchConfig holds settings for the retrieval stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the polite delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// DataDir is the base data directory (contains pdfs/, markdown/, analysis/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ConvertConfig holds settings for the conversion stage.
type ConvertConfig struct {
	// DataDir is the base data directory (contains pdfs/, markdown/, analysis/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// AnalysisConfig holds settings for the external analysis invocation.
type AnalysisConfig struct {
	// Command is the external analysis command. It receives the paper text on
	// stdin, the title and ID as trailing arguments, and writes the report to
	// stdout.
	Command string `json:"command" yaml:"command"`

	// Args are fixed arguments placed before the title and ID.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`

	// MaxChars caps the text sent to the analysis command (default 80000).
	// Longer input is truncated with an explicit marker.
	MaxChars int `json:"max_chars" yaml:"max_chars"`

	// DataDir is the base data directory (contains markdown/, analysis/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PublishConfig holds settings for the publication stage.
type PublishConfig struct {
	// Repo is the GitHub repository whose wiki receives the weekly page
	// (e.g. "someorg/research-notes").
	Repo string `json:"repo" yaml:"repo"`

	// DataDir is the base data directory (contains analysis/, wiki/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Convert   ConvertConfig   `json:"convert" yaml:"convert"`
	Analysis  AnalysisConfig  `json:"analysis" yaml:"analysis"`
	Publish   PublishConfig   `json:"publish" yaml:"publish"`

	// DataDir is the base directory for all pipeline state and artifacts.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// LogsDir is the directory for per-stage log files.
	LogsDir string `json:"logs_dir" yaml:"logs_dir"`
}
