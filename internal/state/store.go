// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package state persists the shared pipeline state: the current selection
// with its accumulated per-stage fields, and the append-only history of
// published paper IDs. All writes happen inside a single transaction, so a
// Save either lands completely or not at all.
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trendwatch/pkg/types"
)

const (
	dbFile       = "trendwatch.db"
	snapshotFile = "papers.yaml"
)

// State is the full shared pipeline state. Stages load it, mutate their own
// fields, and save it back wholesale.
type State struct {
	// Papers is the current selection in rank order.
	Papers []types.Paper

	// History is the set of paper IDs already published in earlier runs.
	History map[string]bool
}

// Store manages the state database at dataDir/trendwatch.db.
type Store struct {
	db      *sql.DB
	dataDir string
}

// New opens or creates the state database, creating the schema on first use.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			rank INTEGER NOT NULL,
			title TEXT,
			abstract TEXT,
			published TEXT,
			alt_pdf_url TEXT,
			raw_metrics TEXT,
			source_scores TEXT,
			composite_score REAL,
			retrieved_path TEXT,
			converted_path TEXT,
			analysis_path TEXT,
			retrieval_degraded INTEGER NOT NULL DEFAULT 0,
			conversion_degraded INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			published_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Load reads the full pipeline state.
func (s *Store) Load() (State, error) {
	st := State{History: make(map[string]bool)}

	rows, err := s.db.Query(`SELECT id, rank, title, abstract, published, alt_pdf_url,
		raw_metrics, source_scores, composite_score,
		retrieved_path, converted_path, analysis_path,
		retrieval_degraded, conversion_degraded
		FROM papers ORDER BY rank`)
	if err != nil {
		return State{}, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p types.Paper
		var published, rawMetrics, sourceScores string
		if err := rows.Scan(&p.ID, &p.Rank, &p.Title, &p.Abstract, &published, &p.AltPDFURL,
			&rawMetrics, &sourceScores, &p.CompositeScore,
			&p.RetrievedPath, &p.ConvertedPath, &p.AnalysisPath,
			&p.RetrievalDegraded, &p.ConversionDegraded); err != nil {
			return State{}, fmt.Errorf("scanning paper row: %w", err)
		}
		if published != "" {
			if t, parseErr := time.Parse(time.RFC3339, published); parseErr == nil {
				p.Published = t
			}
		}
		if rawMetrics != "" {
			if err := json.Unmarshal([]byte(rawMetrics), &p.RawMetrics); err != nil {
				return State{}, fmt.Errorf("decoding raw metrics for %s: %w", p.ID, err)
			}
		}
		if sourceScores != "" {
			if err := json.Unmarshal([]byte(sourceScores), &p.SourceScores); err != nil {
				return State{}, fmt.Errorf("decoding source scores for %s: %w", p.ID, err)
			}
		}
		st.Papers = append(st.Papers, p)
	}
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("iterating papers: %w", err)
	}

	hrows, err := s.db.Query(`SELECT id FROM history`)
	if err != nil {
		return State{}, fmt.Errorf("querying history: %w", err)
	}
	defer hrows.Close()

	for hrows.Next() {
		var id string
		if err := hrows.Scan(&id); err != nil {
			return State{}, fmt.Errorf("scanning history row: %w", err)
		}
		st.History[id] = true
	}
	return st, hrows.Err()
}

// Save writes the full state in one transaction. The papers table is
// replaced wholesale; history rows are only ever inserted, never removed, so
// the history set grows monotonically even if the caller passes a smaller
// one. A YAML snapshot of the selection is written alongside the database
// for inspection.
func (s *Store) Save(st State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM papers`); err != nil {
		return fmt.Errorf("clearing papers: %w", err)
	}

	insert, err := tx.Prepare(`INSERT INTO papers (id, rank, title, abstract, published, alt_pdf_url,
		raw_metrics, source_scores, composite_score,
		retrieved_path, converted_path, analysis_path,
		retrieval_degraded, conversion_degraded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for _, p := range st.Papers {
		published := ""
		if !p.Published.IsZero() {
			published = p.Published.UTC().Format(time.RFC3339)
		}
		rawMetrics, err := json.Marshal(p.RawMetrics)
		if err != nil {
			return fmt.Errorf("encoding raw metrics for %s: %w", p.ID, err)
		}
		sourceScores, err := json.Marshal(p.SourceScores)
		if err != nil {
			return fmt.Errorf("encoding source scores for %s: %w", p.ID, err)
		}
		if _, err := insert.Exec(p.ID, p.Rank, p.Title, p.Abstract, published, p.AltPDFURL,
			string(rawMetrics), string(sourceScores), p.CompositeScore,
			p.RetrievedPath, p.ConvertedPath, p.AnalysisPath,
			p.RetrievalDegraded, p.ConversionDegraded); err != nil {
			return fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for id := range st.History {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO history (id, published_at) VALUES (?, ?)`, id, now); err != nil {
			return fmt.Errorf("inserting history %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state: %w", err)
	}

	return s.writeSnapshot(st.Papers)
}

// writeSnapshot mirrors the selection to a YAML file next to the database.
func (s *Store) writeSnapshot(papers []types.Paper) error {
	data, err := yaml.Marshal(papers)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	path := filepath.Join(s.dataDir, snapshotFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
