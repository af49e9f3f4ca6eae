package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. lost_items and found_items share one
// column layout; the table is the item kind.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL,
    first_name    TEXT NOT NULL,
    last_name     TEXT NOT NULL,
    phone         TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS lost_items (
    id             INTEGER PRIMARY KEY,
    item_name      TEXT NOT NULL CHECK (item_name <> ''),
    description    TEXT NOT NULL CHECK (description <> ''),
    category       TEXT NOT NULL DEFAULT '',
    image_filename TEXT,
    contact        TEXT NOT NULL CHECK (contact <> ''),
    created_at     DATETIME NOT NULL,
    owner_id       INTEGER REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_lost_items_created ON lost_items(created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS found_items (
    id             INTEGER PRIMARY KEY,
    item_name      TEXT NOT NULL CHECK (item_name <> ''),
    description    TEXT NOT NULL CHECK (description <> ''),
    category       TEXT NOT NULL DEFAULT '',
    image_filename TEXT,
    contact        TEXT NOT NULL CHECK (contact <> ''),
    created_at     DATETIME NOT NULL,
    owner_id       INTEGER REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_found_items_created ON found_items(created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: index items by owner.
	`CREATE INDEX IF NOT EXISTS idx_lost_items_owner ON lost_items(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_found_items_owner ON found_items(owner_id)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist and
// applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
