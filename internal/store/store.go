// Package store keeps an audit trail of parse requests served by
// internal/server, behind a single Store interface with a Postgres
// implementation for production and a SQLite implementation for local use
// (the default driver of `rtfstream serve`). `rtfstream watch` does not use
// a store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ParseRecord is one row of the audit trail.
type ParseRecord struct {
	ID          string
	DocID       string
	ContentHash string
	Paragraphs  int
	CreatedAt   time.Time
}

// Store records and recalls parse audit history.
type Store interface {
	RecordParse(ctx context.Context, rec ParseRecord) error
	RecentParses(ctx context.Context, limit int) ([]ParseRecord, error)
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS parse_records (
	id           TEXT PRIMARY KEY,
	doc_id       TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	paragraphs   INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL
)`

// sqlStore implements Store over a plain *sql.DB, shared by both the
// Postgres and SQLite backends. The two drivers disagree on bind-parameter
// syntax ($N vs ?), so each backend supplies its own pre-built statements
// rather than sqlStore trying to paper over the difference with string
// substitution.
type sqlStore struct {
	db         *sql.DB
	insertStmt string
	recentStmt string
}

func (s *sqlStore) RecordParse(ctx context.Context, rec ParseRecord) error {
	_, err := s.db.ExecContext(ctx, s.insertStmt,
		rec.ID, rec.DocID, rec.ContentHash, rec.Paragraphs, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("rtfstream/store: recording parse %s: %w", rec.ID, err)
	}
	return nil
}

func (s *sqlStore) RecentParses(ctx context.Context, limit int) ([]ParseRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.recentStmt, limit)
	if err != nil {
		return nil, fmt.Errorf("rtfstream/store: listing recent parses: %w", err)
	}
	defer rows.Close()

	var out []ParseRecord
	for rows.Next() {
		var rec ParseRecord
		if err := rows.Scan(&rec.ID, &rec.DocID, &rec.ContentHash, &rec.Paragraphs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("rtfstream/store: scanning parse record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
