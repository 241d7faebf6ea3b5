package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adityar/eventpin/internal/event"
)

const pointColumns = `id, name, coordinates, accuracy, category, detail,
date, event_time, price, is_free, emoji, color,
favorite, registered, attendees_json, created_at, last_updated`

// PushEvent inserts a new event under a freshly generated push ID.
// The ID is assigned once, here, and written back to e.
func (s *Store) PushEvent(ctx context.Context, e *event.Event) (string, error) {
	if err := validateEvent(e); err != nil {
		return "", err
	}

	id, err := s.ids.Next()
	if err != nil {
		return "", err
	}
	e.ID = id

	row, err := eventToRow(e)
	if err != nil {
		return "", err
	}

	const query = `
	INSERT INTO points (` + pointColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query,
		row.ID, row.Name, row.Coordinates, row.Accuracy, row.Category, row.Detail,
		row.Date, row.EventTime, row.Price, row.IsFree, row.Emoji, row.Color,
		row.Favorite, row.Registered, row.AttendeesJSON, row.CreatedAt, row.LastUpdated,
	); err != nil {
		return "", fmt.Errorf("push event: %w", err)
	}

	return id, nil
}

// SetEvent performs a full-record overwrite of points/{e.ID}: every column
// takes e's value, so fields left empty on e are reset, not preserved. This
// mirrors the edit screen's documented data-loss semantics; callers wanting
// a partial update must use the Update* merge methods instead.
func (s *Store) SetEvent(ctx context.Context, e *event.Event) error {
	if e.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidEvent)
	}
	if err := validateEvent(e); err != nil {
		return err
	}

	row, err := eventToRow(e)
	if err != nil {
		return err
	}

	const query = `
	UPDATE points SET
		name = ?, coordinates = ?, accuracy = ?, category = ?, detail = ?,
		date = ?, event_time = ?, price = ?, is_free = ?, emoji = ?, color = ?,
		favorite = ?, registered = ?, attendees_json = ?, created_at = ?, last_updated = ?
	WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		row.Name, row.Coordinates, row.Accuracy, row.Category, row.Detail,
		row.Date, row.EventTime, row.Price, row.IsFree, row.Emoji, row.Color,
		row.Favorite, row.Registered, row.AttendeesJSON, row.CreatedAt, row.LastUpdated,
		row.ID,
	)
	if err != nil {
		return fmt.Errorf("set event: %w", err)
	}

	return requireRow(result)
}

// UpdateFavorite merges {favorite: value} into points/{id}, leaving every
// other field untouched.
func (s *Store) UpdateFavorite(ctx context.Context, id string, favorite bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE points SET favorite = ? WHERE id = ?`, favorite, id)
	if err != nil {
		return fmt.Errorf("update favorite: %w", err)
	}
	return requireRow(result)
}

// UpdateRegistered merges {registered: true, lastUpdated: at} into
// points/{id}.
func (s *Store) UpdateRegistered(ctx context.Context, id string, at string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE points SET registered = 1, last_updated = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("update registered: %w", err)
	}
	return requireRow(result)
}

// GetEvent returns the event stored under points/{id}.
func (s *Store) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pointColumns+` FROM points WHERE id = ?`, id)

	e, err := scanPoint(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// DeleteEvent hard-deletes points/{id}. Registrations stored under the same
// event ID are intentionally left in place.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireRow(result)
}

// Snapshot returns the entire points collection in creation order (push IDs
// sort lexically by generation time). An empty store yields an empty,
// non-nil slice.
func (s *Store) Snapshot(ctx context.Context) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pointColumns+` FROM points ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer rows.Close()

	items := make([]event.Event, 0, 16)
	for rows.Next() {
		e, err := scanPoint(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// CountEvents returns the total number of events in the store.
func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM points`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// requireRow maps a zero-row mutation to ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
