// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/trendwatch/pkg/types"
)

// Result holds the outcome of a publication run.
type Result struct {
	// PageName is the wiki page that was written.
	PageName string

	// Published lists the IDs of papers that completed the full pipeline and
	// should be appended to history. Papers that appear on the page with
	// only their abstract are excluded so a later run can retry them.
	Published []string
}

// Run builds the weekly page from the current selection and pushes it
// through the sink. Only papers carrying a finished analysis count as
// published; the rest stay eligible for future runs.
func Run(ctx context.Context, sink Sink, papers []types.Paper, now time.Time, w io.Writer) (Result, error) {
	if len(papers) == 0 {
		return Result{}, fmt.Errorf("no papers to publish")
	}

	date := now.UTC().Format("2006-01-02")
	pageName := PageName(date)

	content, err := BuildPage(papers, date, now.UTC().Format("2006-01-02 15:04"))
	if err != nil {
		return Result{}, err
	}

	if err := sink.Publish(ctx, pageName, content); err != nil {
		return Result{}, fmt.Errorf("publishing %s: %w", pageName, err)
	}

	result := Result{PageName: pageName}
	for _, p := range papers {
		if p.AnalysisPath != "" {
			result.Published = append(result.Published, p.ID)
		}
	}

	fmt.Fprintf(w, "published %s (%d of %d papers fully processed)\n",
		pageName, len(result.Published), len(papers))
	return result, nil
}
