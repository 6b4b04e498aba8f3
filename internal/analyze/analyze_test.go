// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/trendwatch/pkg/types"
)

// fakeBackend records requests and returns a canned report.
type fakeBackend struct {
	report   string
	err      error
	requests []Request
}

func (b *fakeBackend) Analyze(_ context.Context, req Request) (string, error) {
	b.requests = append(b.requests, req)
	return b.report, b.err
}

func writeConverted(t *testing.T, dir, id, text string) string {
	t.Helper()
	path := filepath.Join(dir, id+".md")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzePaperWritesReport(t *testing.T) {
	dataDir := t.TempDir()
	converted := writeConverted(t, dataDir, "2401.0001", "# Paper X\n\nFull text here.")

	backend := &fakeBackend{report: "## Summary\n\nSolid work."}
	paper := &types.Paper{
		Candidate:     types.Candidate{ID: "2401.0001", Title: "Paper X"},
		ConvertedPath: converted,
	}

	var buf bytes.Buffer
	skipped, err := AnalyzePaper(context.Background(), backend, paper, types.AnalysisConfig{DataDir: dataDir}, &buf)
	if err != nil {
		t.Fatalf("AnalyzePaper() error = %v", err)
	}
	if skipped {
		t.Error("AnalyzePaper() skipped a fresh analysis")
	}

	want := filepath.Join(dataDir, "analysis", "2401.0001.md")
	if paper.AnalysisPath != want {
		t.Errorf("AnalysisPath = %q, want %q", paper.AnalysisPath, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if string(data) != backend.report {
		t.Errorf("report on disk = %q, want backend output", data)
	}

	if len(backend.requests) != 1 {
		t.Fatalf("backend saw %d requests, want 1", len(backend.requests))
	}
	req := backend.requests[0]
	if req.ID != "2401.0001" || req.Title != "Paper X" || !strings.Contains(req.Text, "Full text here.") {
		t.Errorf("request = %+v", req)
	}
}

func TestAnalyzePaperSkipsWithoutConvertedText(t *testing.T) {
	backend := &fakeBackend{report: "unused"}
	paper := &types.Paper{Candidate: types.Candidate{ID: "2401.0001"}}

	var buf bytes.Buffer
	skipped, err := AnalyzePaper(context.Background(), backend, paper, types.AnalysisConfig{DataDir: t.TempDir()}, &buf)
	if err != nil {
		t.Fatalf("AnalyzePaper() error = %v", err)
	}
	if !skipped {
		t.Error("paper without converted text should be skipped")
	}
	if len(backend.requests) != 0 {
		t.Errorf("backend called %d times for an unconverted paper, want 0", len(backend.requests))
	}
	if paper.AnalysisPath != "" {
		t.Errorf("AnalysisPath = %q, want empty", paper.AnalysisPath)
	}
}

func TestAnalyzePaperSkipsExistingReport(t *testing.T) {
	dataDir := t.TempDir()
	converted := writeConverted(t, dataDir, "2401.0001", "text")

	outDir := filepath.Join(dataDir, "analysis")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(outDir, "2401.0001.md")
	if err := os.WriteFile(dest, []byte("prior report"), 0o644); err != nil {
		t.Fatal(err)
	}

	backend := &fakeBackend{report: "should never be used"}
	paper := &types.Paper{Candidate: types.Candidate{ID: "2401.0001"}, ConvertedPath: converted}

	var buf bytes.Buffer
	skipped, err := AnalyzePaper(context.Background(), backend, paper, types.AnalysisConfig{DataDir: dataDir}, &buf)
	if err != nil {
		t.Fatalf("AnalyzePaper() error = %v", err)
	}
	if !skipped {
		t.Error("existing report should satisfy the stage")
	}
	if len(backend.requests) != 0 {
		t.Errorf("backend called %d times despite existing report, want 0", len(backend.requests))
	}
	if paper.AnalysisPath != dest {
		t.Errorf("AnalysisPath = %q, want %q", paper.AnalysisPath, dest)
	}

	data, _ := os.ReadFile(dest)
	if string(data) != "prior report" {
		t.Error("existing report was overwritten")
	}
}

func TestAnalyzePaperTruncatesLongText(t *testing.T) {
	dataDir := t.TempDir()
	converted := writeConverted(t, dataDir, "2401.0001", strings.Repeat("a", 500))

	backend := &fakeBackend{report: "report"}
	paper := &types.Paper{Candidate: types.Candidate{ID: "2401.0001"}, ConvertedPath: converted}
	cfg := types.AnalysisConfig{DataDir: dataDir, MaxChars: 100}

	var buf bytes.Buffer
	if _, err := AnalyzePaper(context.Background(), backend, paper, cfg, &buf); err != nil {
		t.Fatalf("AnalyzePaper() error = %v", err)
	}

	text := backend.requests[0].Text
	if !strings.HasSuffix(text, truncationMarker) {
		t.Errorf("truncated text missing marker, got tail %q", text[len(text)-40:])
	}
	if !strings.HasPrefix(text, strings.Repeat("a", 100)) {
		t.Error("truncated text does not start with the first 100 chars")
	}
	if len([]rune(strings.TrimSuffix(text, truncationMarker))) != 100 {
		t.Errorf("kept %d chars before marker, want 100", len([]rune(strings.TrimSuffix(text, truncationMarker))))
	}
}

func TestCapTextShortInputUntouched(t *testing.T) {
	text, truncated := capText("short", 100)
	if truncated || text != "short" {
		t.Errorf("capText = %q, %v; want unchanged input", text, truncated)
	}
}

func TestAnalyzePaperEmptyReportFails(t *testing.T) {
	dataDir := t.TempDir()
	converted := writeConverted(t, dataDir, "2401.0001", "text")

	backend := &fakeBackend{report: ""}
	paper := &types.Paper{Candidate: types.Candidate{ID: "2401.0001"}, ConvertedPath: converted}

	var buf bytes.Buffer
	if _, err := AnalyzePaper(context.Background(), backend, paper, types.AnalysisConfig{DataDir: dataDir}, &buf); err == nil {
		t.Fatal("AnalyzePaper() should fail on empty backend output")
	}
	if paper.AnalysisPath != "" {
		t.Errorf("AnalysisPath = %q, want empty after failure", paper.AnalysisPath)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	dataDir := t.TempDir()
	converted := writeConverted(t, dataDir, "2401.0001", "text one")

	papers := []*types.Paper{
		{Candidate: types.Candidate{ID: "2401.0001"}, ConvertedPath: converted},
		{Candidate: types.Candidate{ID: "2401.0002"}}, // never converted
		{Candidate: types.Candidate{ID: "2401.0003"}, ConvertedPath: filepath.Join(dataDir, "absent.md")},
	}

	backend := &fakeBackend{report: "report"}
	var buf bytes.Buffer
	result := AnalyzeBatch(context.Background(), backend, papers, types.AnalysisConfig{DataDir: dataDir}, &buf)

	if result.Analyzed != 1 || result.Skipped != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want 1 analyzed, 1 skipped, 1 failed", result)
	}
	if result.Total() != 3 {
		t.Errorf("Total() = %d, want 3", result.Total())
	}
	if !strings.Contains(buf.String(), "failed:") {
		t.Errorf("output %q missing failure line", buf.String())
	}
}

// --- command backend ---

// fakeRunner records the invocation and plays back canned stdout/stderr.
type fakeRunner struct {
	stdout  string
	stderr  string
	err     error
	lookErr error

	name     string
	args     []string
	stdinGot string
}

func (r *fakeRunner) LookPath(file string) (string, error) {
	if r.lookErr != nil {
		return "", r.lookErr
	}
	return "/usr/bin/" + file, nil
}

func (r *fakeRunner) Run(_ context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	r.name = name
	r.args = args
	if stdin != nil {
		data, _ := io.ReadAll(stdin)
		r.stdinGot = string(data)
	}
	io.WriteString(stdout, r.stdout)
	io.WriteString(stderr, r.stderr)
	return r.err
}

func TestNewCommandBackendMissingCommand(t *testing.T) {
	if _, err := NewCommandBackend(types.AnalysisConfig{}, &fakeRunner{}); err == nil {
		t.Fatal("NewCommandBackend() should fail without a configured command")
	}
	cfg := types.AnalysisConfig{Command: "reviewer"}
	if _, err := NewCommandBackend(cfg, &fakeRunner{lookErr: errors.New("not found")}); err == nil {
		t.Fatal("NewCommandBackend() should fail when the command is not on PATH")
	}
}

func TestCommandBackendAnalyze(t *testing.T) {
	run := &fakeRunner{stdout: "  ## Review\n\nGood paper.\n"}
	backend, err := NewCommandBackend(types.AnalysisConfig{Command: "reviewer", Args: []string{"--review"}}, run)
	if err != nil {
		t.Fatalf("NewCommandBackend() error = %v", err)
	}

	report, err := backend.Analyze(context.Background(), Request{
		ID:    "2401.0001",
		Title: "Paper X",
		Text:  "full text",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report != "## Review\n\nGood paper." {
		t.Errorf("report = %q, want trimmed stdout", report)
	}
	if run.name != "reviewer" {
		t.Errorf("command = %q, want reviewer", run.name)
	}
	wantArgs := []string{"--review", "Paper X", "2401.0001"}
	if len(run.args) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", run.args, wantArgs)
	}
	for i := range wantArgs {
		if run.args[i] != wantArgs[i] {
			t.Errorf("args[%d] = %q, want %q", i, run.args[i], wantArgs[i])
		}
	}
	if run.stdinGot != "full text" {
		t.Errorf("stdin = %q, want the paper text", run.stdinGot)
	}
}

func TestCommandBackendSurfacesStderr(t *testing.T) {
	run := &fakeRunner{err: errors.New("exit status 1"), stderr: "model overloaded\n"}
	backend := &CommandBackend{Command: "reviewer", Runner: run}

	_, err := backend.Analyze(context.Background(), Request{ID: "2401.0001", Text: "text"})
	if err == nil {
		t.Fatal("Analyze() should propagate the command failure")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("error = %v, want stderr content included", err)
	}
}
