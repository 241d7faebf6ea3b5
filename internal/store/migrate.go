package store

import (
	"context"
	"fmt"
)

// CurrentSchemaVersion is the current database schema version.
const CurrentSchemaVersion = 1

// migrate runs database migrations.
func (s *Store) migrate(ctx context.Context) error {
	if err := s.createPointsTable(ctx); err != nil {
		return err
	}
	if err := s.createRegistrationsTable(ctx); err != nil {
		return err
	}
	if err := s.createMetadataTable(ctx); err != nil {
		return err
	}
	return nil
}

func (s *Store) createPointsTable(ctx context.Context) error {
	// Push IDs sort lexically by creation time, so ORDER BY id reproduces
	// insertion order without a separate sequence column.
	const schema = `
	CREATE TABLE IF NOT EXISTS points (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		coordinates    TEXT NOT NULL DEFAULT '',
		accuracy       TEXT,
		category       TEXT,
		detail         TEXT,
		date           TEXT,
		event_time     TEXT,
		price          TEXT,
		is_free        INTEGER NOT NULL DEFAULT 0,
		emoji          TEXT,
		color          TEXT,
		favorite       INTEGER NOT NULL DEFAULT 0,
		registered     INTEGER NOT NULL DEFAULT 0,
		attendees_json TEXT,
		created_at     TEXT,
		last_updated   TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_points_category ON points(category);
	CREATE INDEX IF NOT EXISTS idx_points_date ON points(date);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create points table: %w", err)
	}
	return nil
}

func (s *Store) createRegistrationsTable(ctx context.Context) error {
	// No foreign key to points: registrations are append-only audit records
	// that deliberately survive event deletion.
	const schema = `
	CREATE TABLE IF NOT EXISTS registrations (
		id            TEXT PRIMARY KEY,
		event_id      TEXT NOT NULL,
		full_name     TEXT NOT NULL,
		email         TEXT,
		phone         TEXT NOT NULL,
		instagram     TEXT,
		notes         TEXT,
		event_name    TEXT NOT NULL,
		method        TEXT,
		registered_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_registrations_event ON registrations(event_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create registrations table: %w", err)
	}
	return nil
}

func (s *Store) createMetadataTable(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS metadata (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create metadata table: %w", err)
	}
	return nil
}
