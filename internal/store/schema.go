package store

// SchemaVersion is the current database schema version
const SchemaVersion = 1

const schema = `
-- Keyed JSON documents: task lists, templates, theme
CREATE TABLE IF NOT EXISTS blobs (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Finished and skipped timer phases
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    phase TEXT NOT NULL,
    started_at DATETIME,
    ended_at DATETIME NOT NULL,
    skipped INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);

CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Migration upgrades an existing database by one version
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations upgrade databases created by older releases, in order. A
// fresh database is created at SchemaVersion and runs none of them.
var Migrations []Migration
