package db

import (
	"database/sql"
)

// MigrateUp creates the schema used by the collection worker.
// Statements are idempotent so the worker can run them on every start.
func MigrateUp(database *sql.DB) error {
	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS source_status (
    source_id            TEXT PRIMARY KEY,
    source_type          VARCHAR(20) NOT NULL,
    consecutive_failures INTEGER NOT NULL DEFAULT 0,
    last_error           TEXT,
    last_error_at        TIMESTAMPTZ,
    last_success         TIMESTAMPTZ,
    last_collected_at    TIMESTAMPTZ,
    created_at           TIMESTAMPTZ DEFAULT now(),
    updated_at           TIMESTAMPTZ DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS content_items (
    id           SERIAL PRIMARY KEY,
    source_id    TEXT NOT NULL REFERENCES source_status(source_id),
    source_type  VARCHAR(20) NOT NULL,
    title        TEXT,
    content_text TEXT,
    content_url  TEXT UNIQUE,
    published_at TIMESTAMPTZ,
    collected_at TIMESTAMPTZ NOT NULL,
    created_at   TIMESTAMPTZ DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_source_status_type ON source_status(source_type)`,
		`CREATE INDEX IF NOT EXISTS idx_source_status_collected ON source_status(last_collected_at)`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_source_id ON content_items(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_collected_at ON content_items(collected_at)`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_published_at ON content_items(published_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := database.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}
