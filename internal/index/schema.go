// Package index provides a SQLite-backed document and list item index that
// serves rendering passes.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	path        TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	ident       TEXT NOT NULL DEFAULT '',
	name_ident  TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	checksum    TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	frontmatter TEXT NOT NULL DEFAULT '{}',
	mtime       INTEGER NOT NULL DEFAULT 0,
	ctime       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_documents_ident ON documents(ident);
CREATE INDEX IF NOT EXISTS idx_documents_name_ident ON documents(name_ident);

CREATE TABLE IF NOT EXISTS list_items (
	path     TEXT NOT NULL REFERENCES documents(path) ON DELETE CASCADE,
	ord      INTEGER NOT NULL,
	line     INTEGER NOT NULL,
	section  TEXT NOT NULL DEFAULT '',
	text     TEXT NOT NULL DEFAULT '',
	task     INTEGER NOT NULL DEFAULT 0,
	checked  INTEGER NOT NULL DEFAULT 0,
	tags     TEXT NOT NULL DEFAULT '[]',
	outlinks TEXT NOT NULL DEFAULT '[]',
	fields   TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (path, ord)
);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
