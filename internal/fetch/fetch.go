// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads PDFs for selected papers, trying the canonical
// arXiv location first and a source-reported open-access location second.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/trendwatch/pkg/types"
)

const pdfDir = "pdfs"

// minPDFSize rejects downloads that are too small to be a real paper;
// failed requests often come back as tiny HTML error pages.
const minPDFSize = 1000

// arxivPDFBase is the canonical PDF location. Declared as a var so tests can
// substitute an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf/"

// BatchResult holds the outcome of a batch retrieval run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the total number of papers processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// AllFailed reports whether no paper produced a PDF.
func (r BatchResult) AllFailed() bool {
	return r.Downloaded+r.Skipped == 0
}

// FetchPaper downloads the PDF for one paper into dataDir/pdfs/<id>.pdf and
// records the path on the paper. If the file already exists and is large
// enough, the download is skipped entirely. The canonical arXiv URL is tried
// first; on any failure the open-access fallback URL is tried once. Success
// through the fallback is recorded as a degraded retrieval.
func FetchPaper(client *http.Client, paper *types.Paper, cfg types.FetchConfig, w io.Writer) (skipped bool, err error) {
	destDir := filepath.Join(cfg.DataDir, pdfDir)
	dest := filepath.Join(destDir, paper.ID+".pdf")

	if info, statErr := os.Stat(dest); statErr == nil && info.Size() >= minPDFSize {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", paper.ID)
		paper.RetrievedPath = dest
		return true, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", destDir, err)
	}

	urls := []string{arxivPDFBase + paper.ID + ".pdf"}
	if paper.AltPDFURL != "" {
		urls = append(urls, paper.AltPDFURL)
	}

	var lastErr error
	for i, url := range urls {
		fmt.Fprintf(w, "downloading: %s (%s)\n", paper.ID, url)
		if err := downloadFile(client, url, dest, cfg); err != nil {
			lastErr = err
			fmt.Fprintf(w, "  warning: download failed: %v\n", err)
			continue
		}
		if i > 0 {
			paper.RetrievalDegraded = true
			fmt.Fprintf(w, "  fallback used for %s\n", paper.ID)
		}
		paper.RetrievedPath = dest
		return false, nil
	}
	return false, fmt.Errorf("all download attempts failed for %s: %w", paper.ID, lastErr)
}

// FetchBatch retrieves every paper in rank order, printing per-item status
// and a summary. Individual failures never abort the loop; the paper is left
// without a retrieved path. A delay is applied between consecutive downloads.
func FetchBatch(client *http.Client, papers []*types.Paper, cfg types.FetchConfig, w io.Writer) BatchResult {
	var result BatchResult
	for i, p := range papers {
		if i > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		wasSkipped, err := FetchPaper(client, p, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", p.ID, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// downloadFile fetches url to destPath using a temporary file renamed into
// place on success, so a partial download never shadows the idempotence
// check. Responses that are not PDF-like or are suspiciously small are
// rejected.
func downloadFile(client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "pdf") && !strings.Contains(contentType, "octet-stream") {
		return fmt.Errorf("unexpected content type %q from %s", contentType, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if n < minPDFSize {
		os.Remove(tmpPath)
		return fmt.Errorf("downloaded file too small (%d bytes), likely an error page", n)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
