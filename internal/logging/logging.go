// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures structured logging for pipeline stages. Every
// stage logs to the console and to a persistent per-stage file so failed
// cron runs can be diagnosed after the fact.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// New returns a logger for the named stage that writes to stderr and to
// logsDir/<stage>.log, along with the open log file. Stages tee their
// per-item status lines into the file as well, so failed cron runs keep the
// per-paper detail, not just the summary counts. Closing the file releases
// both.
func New(stage, logsDir string) (*slog.Logger, io.WriteCloser, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating logs directory: %w", err)
	}

	path := filepath.Join(logsDir, stage+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, f), nil)
	return slog.New(handler).With("stage", stage), f, nil
}
