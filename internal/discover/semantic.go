// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/trendwatch/internal/httputil"
	"github.com/pdiddy/trendwatch/pkg/types"
)

// semanticAPIBase is the Semantic Scholar bulk search endpoint. Declared as a
// var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search/bulk"

const (
	semanticFields = "title,abstract,citationCount,openAccessPdf,publicationDate,externalIds"
	semanticLimit  = 20
)

// SemanticScholarSource queries the Semantic Scholar bulk search API sorted
// by citation count. The raw popularity metric is the citation count. Papers
// without an arXiv ID are dropped because the pipeline keys everything on
// that identifier.
type SemanticScholarSource struct {
	Client *http.Client
	APIKey string

	// Now returns the current time; tests override it to pin the window.
	Now func() time.Time
}

// Name returns the source identifier.
func (s *SemanticScholarSource) Name() string { return "semantic_scholar" }

// Trending queries recent papers for the configured topic within the
// lookback window.
func (s *SemanticScholarSource) Trending(ctx context.Context, cfg types.DiscoveryConfig, _ io.Writer) ([]RawCandidate, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := now().UTC()
	start := today.AddDate(0, 0, -cfg.LookbackDays)

	query := cfg.Query
	if query == "" {
		query = "artificial intelligence"
	}

	params := url.Values{
		"query":                 {query},
		"fields":                {semanticFields},
		"sort":                  {"citationCount:desc"},
		"publicationDateOrYear": {start.Format("2006-01-02") + ":" + today.Format("2006-01-02")},
		"limit":                 {fmt.Sprintf("%d", semanticLimit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticBulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var candidates []RawCandidate
	for _, paper := range sr.Data {
		if paper.ExternalIDs.ArXiv == "" {
			continue
		}

		c := RawCandidate{
			ID:       paper.ExternalIDs.ArXiv,
			Title:    paper.Title,
			Abstract: paper.Abstract,
			Metric:   paper.CitationCount,
		}
		if paper.OpenAccessPdf != nil {
			c.AltPDFURL = paper.OpenAccessPdf.URL
		}
		if t, parseErr := time.Parse("2006-01-02", paper.PublicationDate); parseErr == nil {
			c.Published = t
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// Semantic Scholar bulk search JSON structures.
type semanticBulkResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	CitationCount   int                 `json:"citationCount"`
	PublicationDate string              `json:"publicationDate"`
	OpenAccessPdf   *semanticOpenAccess `json:"openAccessPdf"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}

type semanticExternalIDs struct {
	ArXiv string `json:"ArXiv"`
	DOI   string `json:"DOI"`
}
