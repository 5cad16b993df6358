package sqlite

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// DB wraps the embedded sqlite handle shared by the repositories.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and runs
// migrations.
func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}

	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error { return d.sql.Close() }

// SQL exposes the underlying handle for health checks.
func (d *DB) SQL() *sql.DB { return d.sql }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
CREATE TABLE IF NOT EXISTS alerts (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    severity TEXT NOT NULL,
    status TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT,
    entity_id TEXT,
    entity_name TEXT,
    metadata TEXT,
    created_at TEXT NOT NULL,
    read_at TEXT,
    dismissed_at TEXT,
    resolved_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts (created_at);

CREATE TABLE IF NOT EXISTS notification_preferences (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    enable_sound INTEGER NOT NULL DEFAULT 1,
    enable_desktop INTEGER NOT NULL DEFAULT 1,
    enable_email INTEGER NOT NULL DEFAULT 0,
    enable_sms INTEGER NOT NULL DEFAULT 0,
    muted_types TEXT
);

CREATE TABLE IF NOT EXISTS portfolio_entities (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    credit_exposure REAL NOT NULL,
    gross_exposure REAL NOT NULL,
    external_rating TEXT,
    internal_rating TEXT,
    days_past_due INTEGER NOT NULL DEFAULT 0
);
`)
	return err
}
