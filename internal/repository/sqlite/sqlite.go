// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure-Go driver, so there is no CGo dependency
// and tests can run against ":memory:" databases.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces for snippets and snippet statuses.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests) and runs
// migrations. The caller owns the returned DB and must Close it.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			language   TEXT NOT NULL,
			author     TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_author ON snippets(author);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	// The composite primary key enforces at most one status row per
	// (snippet, user) pair.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippet_statuses (
			snippet_id TEXT NOT NULL REFERENCES snippets(id),
			user_email TEXT NOT NULL,
			status     TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (snippet_id, user_email)
		);
		CREATE INDEX IF NOT EXISTS idx_snippet_statuses_user ON snippet_statuses(user_email);
	`)
	if err != nil {
		return fmt.Errorf("creating snippet_statuses table: %w", err)
	}

	return nil
}
