// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps parsed entries in a SQLite database so single days can
// be looked up and the whole book searched without re-reading the PDF.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/stoic-log/pkg/types"
)

const (
	dbFile            = "stoic.db"
	defaultMaxResults = 20
)

// ErrNotFound is returned by Lookup when no entry has the requested date.
var ErrNotFound = errors.New("entry not found")

// Store manages the entry database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.Dir/stoic.db and creates
// the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS entries (
			date TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			quote TEXT NOT NULL,
			quote_source TEXT NOT NULL,
			explanation TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_position ON entries(position)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one ingest.
type IngestSummary struct {
	Inserted  int
	Updated   int
	Unchanged int
}

// Total returns the number of entries processed.
func (s IngestSummary) Total() int {
	return s.Inserted + s.Updated + s.Unchanged
}

// Ingest stores entries in one transaction. Each entry's position is its
// index in entries, so a re-parse of the whole book restores calendar
// order.
func (s *Store) Ingest(ctx context.Context, entries *types.Entries) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, e := range entries.List() {
		var existing types.Entry
		var position int
		err := tx.QueryRowContext(ctx,
			`SELECT position, title, quote, quote_source, explanation FROM entries WHERE date = ?`, e.Date,
		).Scan(&position, &existing.Title, &existing.Quote, &existing.QuoteSource, &existing.Explanation)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			summary.Inserted++
		case err != nil:
			return summary, fmt.Errorf("reading entry %s: %w", e.Date, err)
		default:
			existing.Date = e.Date
			if existing == e && position == i {
				summary.Unchanged++
				continue
			}
			summary.Updated++
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO entries (date, position, title, quote, quote_source, explanation)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(date) DO UPDATE SET
				position=excluded.position, title=excluded.title, quote=excluded.quote,
				quote_source=excluded.quote_source, explanation=excluded.explanation`,
			e.Date, i, e.Title, e.Quote, e.QuoteSource, e.Explanation,
		)
		if err != nil {
			return summary, fmt.Errorf("storing entry %s: %w", e.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing entries: %w", err)
	}
	return summary, nil
}

// Lookup returns the entry for date. Matching ignores case and surrounding
// whitespace.
func (s *Store) Lookup(ctx context.Context, date string) (types.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT date, title, quote, quote_source, explanation FROM entries
		 WHERE date = ? COLLATE NOCASE`, strings.TrimSpace(date))

	var e types.Entry
	if err := row.Scan(&e.Date, &e.Title, &e.Quote, &e.QuoteSource, &e.Explanation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, date)
		}
		return types.Entry{}, fmt.Errorf("looking up %s: %w", date, err)
	}
	return e, nil
}

// QueryOptions holds parameters for Search.
type QueryOptions struct {
	// Query is matched as a case-insensitive substring of the title,
	// quote, quote source and explanation.
	Query string

	// Limit caps the result count. Zero uses the store default.
	Limit int
}

// Search returns entries containing opts.Query, in book order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]types.Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	pattern := "%" + escapeLike(opts.Query) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, title, quote, quote_source, explanation FROM entries
		 WHERE title LIKE ?1 ESCAPE '\' OR quote LIKE ?1 ESCAPE '\'
			OR quote_source LIKE ?1 ESCAPE '\' OR explanation LIKE ?1 ESCAPE '\'
		 ORDER BY position
		 LIMIT ?2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// All returns every stored entry in book order.
func (s *Store) All(ctx context.Context) (*types.Entries, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, title, quote, quote_source, explanation FROM entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	list, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	entries := types.NewEntries()
	for _, e := range list {
		entries.Add(e)
	}
	return entries, nil
}

func scanEntries(rows *sql.Rows) ([]types.Entry, error) {
	var out []types.Entry
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.Date, &e.Title, &e.Quote, &e.QuoteSource, &e.Explanation); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
