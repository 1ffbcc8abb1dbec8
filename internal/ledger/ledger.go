// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records which publications have already been written to
// the table, so repeated runs never insert the same PMID twice even if
// its row was later edited beyond recognition on the page.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "pubsync.db"

// Entry is one integrated publication.
type Entry struct {
	PMID         string
	RowNumber    int
	Title        string
	DOI          string
	Score        int
	IntegratedAt time.Time
}

// Store manages the integration ledger SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the ledger database at dir/pubsync.db,
// creating the schema if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS publications (
		pmid TEXT PRIMARY KEY,
		row_number INTEGER NOT NULL,
		title TEXT,
		doi TEXT,
		score INTEGER,
		integrated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Add records an integrated publication. Adding a PMID twice is an error,
// the caller is expected to check Has first.
func (s *Store) Add(ctx context.Context, e Entry) error {
	if e.PMID == "" {
		return fmt.Errorf("ledger entry has no PMID")
	}
	at := e.IntegratedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO publications (pmid, row_number, title, doi, score, integrated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.PMID, e.RowNumber, e.Title, e.DOI, e.Score, at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording publication %s: %w", e.PMID, err)
	}
	return nil
}

// Has reports whether the PMID was integrated in an earlier run.
func (s *Store) Has(ctx context.Context, pmid string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM publications WHERE pmid = ?`, pmid,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying ledger for %s: %w", pmid, err)
	}
	return n > 0, nil
}

// Known returns the subset of pmids already in the ledger.
func (s *Store) Known(ctx context.Context, pmids []string) (map[string]bool, error) {
	known := make(map[string]bool)
	for _, pmid := range pmids {
		has, err := s.Has(ctx, pmid)
		if err != nil {
			return nil, err
		}
		if has {
			known[pmid] = true
		}
	}
	return known, nil
}

// List returns all entries, most recently integrated first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid, row_number, title, doi, score, integrated_at
		 FROM publications ORDER BY integrated_at DESC, row_number DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.PMID, &e.RowNumber, &e.Title, &e.DOI, &e.Score, &at); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, at); parseErr == nil {
			e.IntegratedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
