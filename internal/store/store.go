// Package store persists confirmed verse records to SQLite. Two drivers are
// supported behind a build tag: pure Go modernc.org/sqlite by default, and
// mattn/go-sqlite3 when built with -tags cgo_sqlite.
//
// The store owns its own ID scheme; candidates hand off as ImportableRecords
// and extraction-time identities are not preserved.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danteata/spiritammo/core/verse"
)

const schema = `
CREATE TABLE IF NOT EXISTS scriptures (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	book       TEXT    NOT NULL,
	chapter    INTEGER NOT NULL,
	verse      INTEGER NOT NULL,
	text       TEXT    NOT NULL,
	reference  TEXT    NOT NULL,
	confidence INTEGER NOT NULL,
	source     TEXT    NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(book, chapter, verse, text)
);
CREATE INDEX IF NOT EXISTS idx_scriptures_book ON scriptures(book, chapter, verse);
`

// Store wraps the scriptures database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts records extracted from source. Records already present (same
// book, chapter, verse, and text) are skipped. It returns the number of rows
// actually inserted.
func (s *Store) Save(ctx context.Context, source string, records []verse.ImportableRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO scriptures (book, chapter, verse, text, reference, confidence, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		res, err := stmt.ExecContext(ctx, r.Book, r.Chapter, r.Verse, r.Text, r.Reference, r.Confidence, source)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", r.Reference, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// ByBook returns the stored records for one canonical book, ordered by
// chapter and verse.
func (s *Store) ByBook(ctx context.Context, book string) ([]verse.ImportableRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book, chapter, verse, text, reference, confidence
		FROM scriptures WHERE book = ? ORDER BY chapter, verse`, book)
	if err != nil {
		return nil, fmt.Errorf("query book %s: %w", book, err)
	}
	defer rows.Close()

	var out []verse.ImportableRecord
	for rows.Next() {
		var r verse.ImportableRecord
		if err := rows.Scan(&r.Book, &r.Chapter, &r.Verse, &r.Text, &r.Reference, &r.Confidence); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scriptures`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
