package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLite opens a SQLite-backed Store at path and ensures the audit
// table exists. Used for local development; it is what `rtfstream serve`
// opens when database.driver is not "postgres".
func NewSQLite(path string) (Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("rtfstream/store: opening sqlite %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("rtfstream/store: creating schema: %w", err)
	}
	return &sqlStore{
		db: db,
		insertStmt: `INSERT INTO parse_records (id, doc_id, content_hash, paragraphs, created_at)
			VALUES (?, ?, ?, ?, ?)`,
		recentStmt: `SELECT id, doc_id, content_hash, paragraphs, created_at
			FROM parse_records ORDER BY created_at DESC LIMIT ?`,
	}, nil
}
