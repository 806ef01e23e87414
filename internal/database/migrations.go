package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_ts TEXT NOT NULL,
    codes TEXT NOT NULL,
    file_ref TEXT,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_ts TEXT NOT NULL,
    market TEXT NOT NULL,
    code TEXT NOT NULL,
    name TEXT NOT NULL,
    price INTEGER DEFAULT 0,
    foreign_rate TEXT,
    prev_foreign_rate TEXT,
    prev_close INTEGER DEFAULT 0,
    change_rate TEXT,
    post_count INTEGER DEFAULT 0,
    posts_summary TEXT,
    sentiment TEXT,
    top_keywords TEXT,
    is_consecutive INTEGER DEFAULT 0,
    rank INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS digests (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_ts TEXT UNIQUE NOT NULL,
    body_markdown TEXT NOT NULL,
    record_count INTEGER DEFAULT 0,
    generated_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_snapshots_cycle ON snapshots(cycle_ts);
CREATE INDEX IF NOT EXISTS idx_reports_cycle ON reports(cycle_ts);
CREATE INDEX IF NOT EXISTS idx_digests_cycle ON digests(cycle_ts);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
