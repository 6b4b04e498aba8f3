// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/trendwatch/pkg/types"
)

// huggingFaceAPIBase is the HuggingFace daily papers endpoint. Declared as a
// var so tests can substitute an httptest server.
var huggingFaceAPIBase = "https://huggingface.co/api/daily_papers"

// HuggingFaceSource queries the HuggingFace daily papers API. The raw
// popularity metric is the community upvote count.
type HuggingFaceSource struct {
	Client *http.Client

	// Now returns the current time; tests override it to pin the window.
	Now func() time.Time
}

// Name returns the source identifier.
func (s *HuggingFaceSource) Name() string { return "huggingface" }

// Trending fetches the daily papers list for each day in the lookback
// window, one request per day. A failed day is a warning, not an error; the
// source fails only when every day fails.
func (s *HuggingFaceSource) Trending(ctx context.Context, cfg types.DiscoveryConfig, w io.Writer) ([]RawCandidate, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := now().UTC()

	days := cfg.LookbackDays
	if days <= 0 {
		days = 7
	}

	seen := make(map[string]bool)
	var candidates []RawCandidate
	failedDays := 0

	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		entries, err := s.fetchDay(ctx, date, cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: huggingface query for %s failed: %v\n", date, err)
			failedDays++
			continue
		}
		for _, e := range entries {
			if e.Paper.ID == "" || seen[e.Paper.ID] {
				continue
			}
			seen[e.Paper.ID] = true

			c := RawCandidate{
				ID:       e.Paper.ID,
				Title:    e.Paper.Title,
				Abstract: e.Paper.Summary,
				Metric:   e.Paper.Upvotes,
			}
			if t, parseErr := time.Parse(time.RFC3339, e.Paper.PublishedAt); parseErr == nil {
				c.Published = t
			}
			candidates = append(candidates, c)
		}
	}

	if failedDays == days {
		return nil, fmt.Errorf("all %d daily queries failed", days)
	}
	return candidates, nil
}

func (s *HuggingFaceSource) fetchDay(ctx context.Context, date string, cfg types.DiscoveryConfig) ([]hfEntry, error) {
	url := fmt.Sprintf("%s?date=%s", huggingFaceAPIBase, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daily papers request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("daily papers API returned HTTP %d", resp.StatusCode)
	}

	var entries []hfEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing daily papers response: %w", err)
	}
	return entries, nil
}

// HuggingFace daily papers JSON structures.
type hfEntry struct {
	Paper hfPaper `json:"paper"`
}

type hfPaper struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Upvotes     int    `json:"upvotes"`
	PublishedAt string `json:"publishedAt"`
}
