// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner abstracts external command execution so stages that shell
// out (analysis command, wiki git operations) can be tested without running
// real processes.
package runner

import (
	"context"
	"io"
	"os/exec"
)

// Runner executes external commands.
type Runner interface {
	// LookPath reports whether the named binary exists on PATH.
	LookPath(file string) (string, error)

	// Run executes name with args, wiring the given stdin, stdout, and
	// stderr. The command is killed when ctx is cancelled.
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// LookPath resolves the binary through os/exec.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes the command and waits for it to finish.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
