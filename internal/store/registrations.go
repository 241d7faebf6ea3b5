package store

import (
	"context"
	"fmt"

	"github.com/adityar/eventpin/internal/event"
)

// PushRegistration appends a registration record under the event's ID.
// Registrations are write-only audit records: this application never updates
// or deletes them, and deleting an event does not cascade here.
func (s *Store) PushRegistration(ctx context.Context, r *event.Registration) (string, error) {
	if err := validateRegistration(r); err != nil {
		return "", err
	}

	id, err := s.ids.Next()
	if err != nil {
		return "", err
	}
	r.ID = id

	const query = `
	INSERT INTO registrations
	(id, event_id, full_name, email, phone, instagram, notes, event_name, method, registered_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query,
		r.ID, r.EventID, r.FullName,
		nullable(r.Email), r.Phone, nullable(r.Instagram), nullable(r.Notes),
		r.EventName, nullable(r.Method), r.RegisteredAt,
	); err != nil {
		return "", fmt.Errorf("push registration: %w", err)
	}

	return id, nil
}

// CountRegistrations returns the number of registrations recorded under the
// given event ID, including ones whose event has since been deleted.
func (s *Store) CountRegistrations(ctx context.Context, eventID string) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = ?`, eventID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}
