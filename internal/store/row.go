package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/adityar/eventpin/internal/event"
)

// pointRow is the internal type representing a points table row.
type pointRow struct {
	ID            string
	Name          string
	Coordinates   string
	Accuracy      sql.NullString
	Category      sql.NullString
	Detail        sql.NullString
	Date          sql.NullString
	EventTime     sql.NullString
	Price         sql.NullString
	IsFree        bool
	Emoji         sql.NullString
	Color         sql.NullString
	Favorite      bool
	Registered    bool
	AttendeesJSON sql.NullString
	CreatedAt     sql.NullString
	LastUpdated   sql.NullString
}

// toEvent converts a database row to an Event.
func (r *pointRow) toEvent() (*event.Event, error) {
	e := &event.Event{
		ID:          r.ID,
		Name:        r.Name,
		Coordinates: r.Coordinates,
		Accuracy:    r.Accuracy.String,
		Category:    r.Category.String,
		Detail:      r.Detail.String,
		Date:        r.Date.String,
		Time:        r.EventTime.String,
		Price:       r.Price.String,
		IsFree:      r.IsFree,
		Emoji:       r.Emoji.String,
		Color:       r.Color.String,
		Favorite:    r.Favorite,
		Registered:  r.Registered,
		CreatedAt:   r.CreatedAt.String,
		LastUpdated: r.LastUpdated.String,
	}

	if r.AttendeesJSON.Valid && r.AttendeesJSON.String != "" {
		if err := json.Unmarshal([]byte(r.AttendeesJSON.String), &e.Attendees); err != nil {
			return nil, fmt.Errorf("parse attendees for %s: %w", r.ID, err)
		}
	}

	return e, nil
}

// eventToRow converts an Event to a database row.
func eventToRow(e *event.Event) (*pointRow, error) {
	r := &pointRow{
		ID:          e.ID,
		Name:        e.Name,
		Coordinates: e.Coordinates,
		Accuracy:    nullable(e.Accuracy),
		Category:    nullable(e.Category),
		Detail:      nullable(e.Detail),
		Date:        nullable(e.Date),
		EventTime:   nullable(e.Time),
		Price:       nullable(e.Price),
		IsFree:      e.IsFree,
		Emoji:       nullable(e.Emoji),
		Color:       nullable(e.Color),
		Favorite:    e.Favorite,
		Registered:  e.Registered,
		CreatedAt:   nullable(e.CreatedAt),
		LastUpdated: nullable(e.LastUpdated),
	}

	if e.Attendees != nil {
		data, err := json.Marshal(e.Attendees)
		if err != nil {
			return nil, fmt.Errorf("marshal attendees: %w", err)
		}
		r.AttendeesJSON = sql.NullString{String: string(data), Valid: true}
	}

	return r, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// scanPoint scans a points row from the canonical column order.
func scanPoint(scan func(dest ...any) error) (*event.Event, error) {
	var r pointRow
	if err := scan(
		&r.ID, &r.Name, &r.Coordinates, &r.Accuracy, &r.Category, &r.Detail,
		&r.Date, &r.EventTime, &r.Price, &r.IsFree, &r.Emoji, &r.Color,
		&r.Favorite, &r.Registered, &r.AttendeesJSON, &r.CreatedAt, &r.LastUpdated,
	); err != nil {
		return nil, err
	}
	return r.toEvent()
}

// validateEvent checks that required fields are set.
func validateEvent(e *event.Event) error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEvent)
	}
	return nil
}

// validateRegistration checks that required fields are set.
func validateRegistration(r *event.Registration) error {
	if r.EventID == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidRegistration)
	}
	if r.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidRegistration)
	}
	if r.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidRegistration)
	}
	return nil
}
