// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/trendwatch/pkg/types"
)

const defaultUserAgent = "trendwatch/0.1"

func setDefaults() {
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("logs_dir", "logs")
	viper.SetDefault("http.timeout", 60*time.Second)

	viper.SetDefault("papers.count", 2)
	viper.SetDefault("papers.lookback_days", 7)
	viper.SetDefault("papers.query", "artificial intelligence")

	viper.SetDefault("sources.huggingface.enabled", true)
	viper.SetDefault("sources.huggingface.weight", 0.7)
	viper.SetDefault("sources.semantic_scholar.enabled", true)
	viper.SetDefault("sources.semantic_scholar.weight", 0.3)

	viper.SetDefault("fetch.download_delay", 1*time.Second)
	viper.SetDefault("analysis.max_chars", 80000)
}

// pipelineConfig assembles the full stage configuration from viper.
func pipelineConfig() types.PipelineConfig {
	dataDir := viper.GetString("data_dir")
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: defaultUserAgent,
	}

	return types.PipelineConfig{
		DataDir: dataDir,
		LogsDir: viper.GetString("logs_dir"),
		Discovery: types.DiscoveryConfig{
			HTTPConfig:   httpCfg,
			Count:        viper.GetInt("papers.count"),
			LookbackDays: viper.GetInt("papers.lookback_days"),
			Query:        viper.GetString("papers.query"),
			Sources: map[string]types.SourceConfig{
				"huggingface": {
					Enabled: viper.GetBool("sources.huggingface.enabled"),
					Weight:  viper.GetFloat64("sources.huggingface.weight"),
				},
				"semantic_scholar": {
					Enabled: viper.GetBool("sources.semantic_scholar.enabled"),
					Weight:  viper.GetFloat64("sources.semantic_scholar.weight"),
					APIKey:  secretDefault("semantic-scholar-api-key", viper.GetString("sources.semantic_scholar.api_key")),
				},
			},
		},
		Fetch: types.FetchConfig{
			HTTPConfig:    httpCfg,
			DownloadDelay: viper.GetDuration("fetch.download_delay"),
			DataDir:       dataDir,
		},
		Convert: types.ConvertConfig{
			DataDir: dataDir,
		},
		Analysis: types.AnalysisConfig{
			Command:  viper.GetString("analysis.command"),
			Args:     viper.GetStringSlice("analysis.args"),
			MaxChars: viper.GetInt("analysis.max_chars"),
			DataDir:  dataDir,
		},
		Publish: types.PublishConfig{
			Repo:    viper.GetString("wiki.repo"),
			DataDir: dataDir,
		},
	}
}
