package app

import (
	"context"

	"github.com/adityar/eventpin/internal/event"
)

// EventsUsecase defines read access to the event collection.
type EventsUsecase interface {
	// Snapshot returns every event in creation order.
	Snapshot(ctx context.Context) ([]event.Event, error)

	// Get returns a single event by ID.
	Get(ctx context.Context, id string) (*event.Event, error)
}

// EventStore defines store operations needed by EventsService.
type EventStore interface {
	Snapshot(ctx context.Context) ([]event.Event, error)
	GetEvent(ctx context.Context, id string) (*event.Event, error)
}

// EventsService implements EventsUsecase.
type EventsService struct {
	Store EventStore
}

// Snapshot returns the full event collection.
func (s *EventsService) Snapshot(ctx context.Context) ([]event.Event, error) {
	return s.Store.Snapshot(ctx)
}

// Get returns the event stored under id.
func (s *EventsService) Get(ctx context.Context, id string) (*event.Event, error) {
	return s.Store.GetEvent(ctx, id)
}
