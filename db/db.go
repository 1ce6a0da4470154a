// ABOUTME: SQLite connection management for the field-survey collections
// ABOUTME: Single-writer local database, safe for flaky tablet shutdowns
package db

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// OpenDatabase opens (creating if needed) the campo database and applies
// the schema. WAL keeps half-written surveys recoverable when a tablet
// dies mid-visit; foreign keys guard the venda→cliente and
// cliente_pesquisas references; the busy timeout covers the brief overlap
// when the TUI and an import run against the same file.
func OpenDatabase(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// One writer at a time. Everything in campo is sequential user
	// actions, so a single connection avoids locked-database errors.
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
