// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToStageFile(t *testing.T) {
	logsDir := t.TempDir()

	log, closer, err := New("discover", logsDir)
	require.NoError(t, err)

	log.Info("selection complete", "count", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(logsDir, "discover.log"))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Contains(content, "selection complete"))
	assert.True(t, strings.Contains(content, "stage=discover"))
	assert.True(t, strings.Contains(content, "count=2"))
}

func TestNewAppendsAcrossRuns(t *testing.T) {
	logsDir := t.TempDir()

	log, closer, err := New("fetch", logsDir)
	require.NoError(t, err)
	log.Info("first run")
	require.NoError(t, closer.Close())

	log, closer, err = New("fetch", logsDir)
	require.NoError(t, err)
	log.Info("second run")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(logsDir, "fetch.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "first run"))
	assert.True(t, strings.Contains(string(data), "second run"))
}

func TestLogFileCarriesPerItemLines(t *testing.T) {
	logsDir := t.TempDir()

	// Stages tee their per-item status output into the returned file, so a
	// single paper's failure is diagnosable from the log alone.
	log, logFile, err := New("fetch", logsDir)
	require.NoError(t, err)

	out := io.MultiWriter(io.Discard, logFile)
	fmt.Fprintf(out, "failed:  2401.0001 (all download attempts failed)\n")
	log.Info("fetch complete", "failed", 1)
	require.NoError(t, logFile.Close())

	data, err := os.ReadFile(filepath.Join(logsDir, "fetch.log"))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Contains(content, "failed:  2401.0001"),
		"per-item failure line must reach the stage log")
	assert.True(t, strings.Contains(content, "failed=1"))
}

func TestNewCreatesLogsDir(t *testing.T) {
	logsDir := filepath.Join(t.TempDir(), "nested", "logs")

	_, closer, err := New("convert", logsDir)
	require.NoError(t, err)
	defer closer.Close()

	_, err = os.Stat(filepath.Join(logsDir, "convert.log"))
	assert.NoError(t, err)
}
