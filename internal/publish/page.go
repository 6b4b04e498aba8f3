// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish assembles the weekly review page and pushes it to the
// remote wiki, then records the published papers in history.
package publish

import (
	"fmt"
	"os"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/pdiddy/trendwatch/pkg/types"
)

// pageLabel is the fixed suffix of every weekly page name.
const pageLabel = "Weekly-AI-Paper-Review"

// PageName returns the deterministic wiki page name for a run date,
// e.g. "2026-08-30-Weekly-AI-Paper-Review".
func PageName(date string) string {
	return date + "-" + pageLabel
}

// BuildPage renders the weekly review Markdown page. Papers with an analysis
// report embed it in full; papers without one fall back to their abstract so
// the page is complete either way.
func BuildPage(papers []types.Paper, date, generatedAt string) (string, error) {
	var buf strings.Builder
	md := markdown.NewMarkdown(&buf)

	md.H1("Weekly AI Paper Review - " + date)
	md.PlainText("")
	md.PlainTextf("> Auto-generated on %s UTC", generatedAt)
	md.PlainText("")
	md.HorizontalRule()
	md.PlainText("")

	for i, p := range papers {
		md.H2f("%d. %s", i+1, p.Title)
		md.PlainText("")
		md.BulletList(paperLinks(p)...)
		md.PlainText("")

		if body := readAnalysis(p); body != "" {
			md.PlainText(body)
		} else {
			md.H3("Abstract")
			md.PlainText("")
			md.PlainText(p.Abstract)
		}
		md.PlainText("")
		md.HorizontalRule()
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return "", fmt.Errorf("building weekly page: %w", err)
	}
	return buf.String(), nil
}

func paperLinks(p types.Paper) []string {
	links := []string{
		fmt.Sprintf("**arXiv**: [%s](https://arxiv.org/abs/%s)", p.ID, p.ID),
		fmt.Sprintf("**PDF**: [Link](https://arxiv.org/pdf/%s.pdf)", p.ID),
	}
	if upvotes := p.RawMetrics["huggingface"]; upvotes > 0 {
		links = append(links, fmt.Sprintf("**HuggingFace Upvotes**: %d", upvotes))
	}
	if citations := p.RawMetrics["semantic_scholar"]; citations > 0 {
		links = append(links, fmt.Sprintf("**Citations**: %d", citations))
	}
	return links
}

func readAnalysis(p types.Paper) string {
	if p.AnalysisPath == "" {
		return ""
	}
	data, err := os.ReadFile(p.AnalysisPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
