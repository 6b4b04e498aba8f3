// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/trendwatch/internal/runner"
	"github.com/pdiddy/trendwatch/pkg/types"
)

// CommandBackend invokes an external analysis command. The paper text is
// piped to stdin, the title and ID are appended as the final two arguments,
// and stdout is taken verbatim as the report.
type CommandBackend struct {
	Command string
	Args    []string
	Runner  runner.Runner
}

// NewCommandBackend builds a backend from the analysis configuration,
// verifying that the command exists on PATH.
func NewCommandBackend(cfg types.AnalysisConfig, run runner.Runner) (*CommandBackend, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("no analysis command configured (set analysis.command)")
	}
	if _, err := run.LookPath(cfg.Command); err != nil {
		return nil, fmt.Errorf("analysis command %q not found: %w", cfg.Command, err)
	}
	return &CommandBackend{Command: cfg.Command, Args: cfg.Args, Runner: run}, nil
}

// Analyze runs the command for one paper.
func (b *CommandBackend) Analyze(ctx context.Context, req Request) (string, error) {
	args := append(append([]string{}, b.Args...), req.Title, req.ID)

	var out, errBuf bytes.Buffer
	if err := b.Runner.Run(ctx, b.Command, args, strings.NewReader(req.Text), &out, &errBuf); err != nil {
		msg := strings.TrimSpace(errBuf.String())
		if msg != "" {
			return "", fmt.Errorf("running %s: %w: %s", b.Command, err, msg)
		}
		return "", fmt.Errorf("running %s: %w", b.Command, err)
	}
	return strings.TrimSpace(out.String()), nil
}
