// Package sqlite provides a SQLite-backed storage driver for single-node
// deployments.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // register the sqlite3 driver

	"github.com/thinkhaus/corpus/pkg/storage/sqldriver"
)

// Driver implements storage.Driver using SQLite via the shared SQL store.
type Driver struct {
	*sqldriver.Store
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		thinker TEXT NOT NULL,
		title TEXT NOT NULL,
		source_file TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		word_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS positions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		thinker TEXT NOT NULL,
		position_text TEXT NOT NULL,
		topic TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		thinker TEXT NOT NULL,
		quote_text TEXT NOT NULL,
		topic TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS arguments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		thinker TEXT NOT NULL,
		argument_type TEXT NOT NULL,
		premises TEXT NOT NULL,
		conclusion TEXT NOT NULL,
		topic TEXT,
		importance INTEGER NOT NULL DEFAULT 5
	)`,
	`CREATE TABLE IF NOT EXISTS text_chunks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		thinker TEXT NOT NULL,
		source_file TEXT NOT NULL,
		chunk_text TEXT NOT NULL,
		chunk_index INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS qas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		thinker TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		topic TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS trends (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		thinker TEXT NOT NULL,
		theme TEXT NOT NULL,
		mentions INTEGER NOT NULL
	)`,
}

// NewDriver creates a SQLite-backed driver. dbPath can be a file path or
// ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite-specific pragmas
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &Driver{
		Store: &sqldriver.Store{
			DB:      db,
			Dialect: sqldriver.SQLite,
		},
	}, nil
}
