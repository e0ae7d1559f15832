package store

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewPostgres opens a Postgres-backed Store via the pgx stdlib driver and
// ensures the audit table exists.
func NewPostgres(dsn string) (Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("rtfstream/store: opening postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("rtfstream/store: creating schema: %w", err)
	}
	return &sqlStore{
		db: db,
		insertStmt: `INSERT INTO parse_records (id, doc_id, content_hash, paragraphs, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
		recentStmt: `SELECT id, doc_id, content_hash, paragraphs, created_at
			FROM parse_records ORDER BY created_at DESC LIMIT $1`,
	}, nil
}
