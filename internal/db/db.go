package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteSchema mirrors migrations/001_init.sql in SQLite dialect. SQLite
// databases are initialized on open, the way the original deployment worked;
// Postgres goes through cmd/migrate.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	username TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users (id),
	exercise TEXT NOT NULL,
	day TEXT NOT NULL,
	value INTEGER NOT NULL CHECK (value > 0),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_entries_user_day ON entries (user_id, exercise, day);
`

// Open connects to the configured database. Postgres URLs get the pq driver;
// anything else is treated as a SQLite file path (or :memory:).
func Open(url string) (*sql.DB, error) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		d, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := d.Ping(); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return d, nil
	}

	d, err := sql.Open("sqlite3", url)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := d.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := d.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return d, nil
}
