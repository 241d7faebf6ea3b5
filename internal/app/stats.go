package app

import (
	"context"

	"github.com/adityar/eventpin/internal/event"
	"github.com/adityar/eventpin/internal/view"
)

// StatsResult represents the response for the stats endpoint. The previews
// are the first few matching records in snapshot order, sized for summary
// cards.
type StatsResult struct {
	Total         int           `json:"total"`
	Favorite      int           `json:"favorite"`
	Registered    int           `json:"registered"`
	Upcoming      int           `json:"upcoming"`
	TopFavorites  []event.Event `json:"topFavorites"`
	TopRegistered []event.Event `json:"topRegistered"`
}

// StatsUsecase defines the interface for stats operations.
type StatsUsecase interface {
	GetStats(ctx context.Context) (*StatsResult, error)
}

// StatsService implements StatsUsecase over the full snapshot. Counters
// ignore any active filter on the client; that is the point of the summary
// cards.
type StatsService struct {
	store EventStore
}

// NewStatsService creates a new StatsService.
func NewStatsService(store EventStore) *StatsService {
	return &StatsService{store: store}
}

// GetStats computes aggregate counters and previews for today.
func (s *StatsService) GetStats(ctx context.Context) (*StatsResult, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	stats := view.Aggregate(snap, view.Today())
	return &StatsResult{
		Total:         stats.Total,
		Favorite:      stats.Favorite,
		Registered:    stats.Registered,
		Upcoming:      stats.Upcoming,
		TopFavorites:  view.TopFavorites(snap, view.PreviewSize),
		TopRegistered: view.TopRegistered(snap, view.PreviewSize),
	}, nil
}
