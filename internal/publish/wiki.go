// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/trendwatch/internal/runner"
)

const wikiDir = "wiki"

// Sink writes a finished page to a remote content store.
type Sink interface {
	Publish(ctx context.Context, pageName, content string) error
}

// GitWikiSink publishes pages to a GitHub wiki by cloning its git repository
// into a working directory, writing the page and the Home index, and pushing.
type GitWikiSink struct {
	// Repo is the GitHub "owner/name" repository whose wiki is targeted.
	Repo string

	// Dir is the local clone directory (dataDir/wiki).
	Dir string

	Runner runner.Runner
	Log    io.Writer
}

// NewGitWikiSink builds a sink rooted at dataDir/wiki, verifying that git is
// available.
func NewGitWikiSink(repo, dataDir string, run runner.Runner, log io.Writer) (*GitWikiSink, error) {
	if repo == "" {
		return nil, fmt.Errorf("no wiki repository configured (set wiki.repo)")
	}
	if _, err := run.LookPath("git"); err != nil {
		return nil, fmt.Errorf("git not found: %w", err)
	}
	return &GitWikiSink{
		Repo:   repo,
		Dir:    filepath.Join(dataDir, wikiDir),
		Runner: run,
		Log:    log,
	}, nil
}

func (s *GitWikiSink) remoteURL() string {
	return fmt.Sprintf("git@github.com:%s.wiki.git", s.Repo)
}

// Publish writes pageName.md into the wiki clone, updates the Home index,
// and commits and pushes. A push with nothing to commit is a success: the
// page was already published by an earlier run.
func (s *GitWikiSink) Publish(ctx context.Context, pageName, content string) error {
	if err := s.ensureClone(ctx); err != nil {
		return err
	}

	pagePath := filepath.Join(s.Dir, pageName+".md")
	if err := os.WriteFile(pagePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing wiki page: %w", err)
	}
	fmt.Fprintf(s.Log, "wrote %s\n", pagePath)

	if err := s.updateHome(pageName); err != nil {
		return err
	}
	return s.commitAndPush(ctx, pageName)
}

// ensureClone pulls an existing clone or creates a fresh one. A clone
// failure against an empty wiki falls back to init plus remote add, since
// GitHub only creates the wiki repository once it has a page.
func (s *GitWikiSink) ensureClone(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(s.Dir, ".git")); err == nil {
		if _, err := s.git(ctx, "-C", s.Dir, "pull", "--rebase"); err != nil {
			return fmt.Errorf("updating wiki clone: %w", err)
		}
		return nil
	}

	if _, err := s.git(ctx, "clone", s.remoteURL(), s.Dir); err != nil {
		fmt.Fprintf(s.Log, "warning: clone failed (wiki may be empty), initializing\n")
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return fmt.Errorf("creating wiki directory: %w", err)
		}
		if _, err := s.git(ctx, "-C", s.Dir, "init"); err != nil {
			return fmt.Errorf("initializing wiki repository: %w", err)
		}
		if _, err := s.git(ctx, "-C", s.Dir, "remote", "add", "origin", s.remoteURL()); err != nil {
			return fmt.Errorf("adding wiki remote: %w", err)
		}
	}
	return nil
}

// updateHome inserts a link to the new page under the Weekly Reviews section
// of Home.md. Re-running for the same page is a no-op.
func (s *GitWikiSink) updateHome(pageName string) error {
	home := filepath.Join(s.Dir, "Home.md")
	const marker = "## Weekly Reviews"

	content := "# Research Wiki\n\nWeekly AI paper review archive\n\n" + marker + "\n"
	if data, err := os.ReadFile(home); err == nil {
		content = string(data)
	}

	date := strings.TrimSuffix(pageName, "-"+pageLabel)
	entry := fmt.Sprintf("- [%s Weekly Review](%s)", date, pageName)
	if strings.Contains(content, pageName) {
		fmt.Fprintf(s.Log, "Home.md already links %s\n", pageName)
		return nil
	}

	if idx := strings.Index(content, marker); idx >= 0 {
		insertAt := idx + len(marker)
		content = content[:insertAt] + "\n\n" + entry + content[insertAt:]
	} else {
		content += "\n" + marker + "\n\n" + entry + "\n"
	}

	if err := os.WriteFile(home, []byte(content), 0o644); err != nil {
		return fmt.Errorf("updating Home.md: %w", err)
	}
	return nil
}

func (s *GitWikiSink) commitAndPush(ctx context.Context, pageName string) error {
	if _, err := s.git(ctx, "-C", s.Dir, "add", "-A"); err != nil {
		return fmt.Errorf("staging wiki changes: %w", err)
	}

	out, err := s.git(ctx, "-C", s.Dir, "commit", "-m", pageName)
	if err != nil {
		if strings.Contains(out, "nothing to commit") {
			fmt.Fprintf(s.Log, "nothing to commit\n")
			return nil
		}
		return fmt.Errorf("committing wiki changes: %w", err)
	}

	if _, err := s.git(ctx, "-C", s.Dir, "push", "origin", "HEAD"); err != nil {
		return fmt.Errorf("pushing wiki changes: %w", err)
	}
	return nil
}

// git runs one git command, returning its combined output for inspection.
func (s *GitWikiSink) git(ctx context.Context, args ...string) (string, error) {
	var buf bytes.Buffer
	err := s.Runner.Run(ctx, "git", args, nil, &buf, &buf)
	return buf.String(), err
}
