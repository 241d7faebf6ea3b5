// Package view provides pure, synchronous derivations over an event
// snapshot: category/search filtering, section grouping, aggregate counters,
// and summary-card previews. Nothing here mutates the source list; every
// function returns a fresh projection and is re-run on each input change.
package view

import (
	"strings"
	"time"

	"github.com/adityar/eventpin/internal/event"
)

// PreviewSize is the number of records shown on summary cards.
const PreviewSize = 3

// Section is one category partition of a filtered snapshot. Sections appear
// in first-encounter order of the filtered set, not alphabetically.
type Section struct {
	Category string        `json:"category"`
	Events   []event.Event `json:"events"`
}

// Stats holds aggregate counters computed over the unfiltered snapshot.
type Stats struct {
	Total      int `json:"total"`
	Favorite   int `json:"favorite"`
	Registered int `json:"registered"`
	Upcoming   int `json:"upcoming"`
}

// Today returns the current date as an ISO date string, the value Date
// fields are compared against lexically.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// FilterCategory keeps records whose normalized category exactly matches the
// selection (case-sensitive). The CategoryAll sentinel passes everything
// through unchanged.
func FilterCategory(events []event.Event, category string) []event.Event {
	if category == "" || category == event.CategoryAll {
		return events
	}
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if e.NormalizedCategory() == category {
			out = append(out, e)
		}
	}
	return out
}

// Search keeps records where the lowercased query is a substring of the
// lowercased name, detail, or category. Empty detail/category never match.
// A blank (all-whitespace) query passes everything through.
func Search(events []event.Event, query string) []event.Event {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return events
	}
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			(e.Detail != "" && strings.Contains(strings.ToLower(e.Detail), q)) ||
			(e.Category != "" && strings.Contains(strings.ToLower(e.Category), q)) {
			out = append(out, e)
		}
	}
	return out
}

// Apply runs the filter pipeline in its fixed order: category first, then
// search.
func Apply(events []event.Event, category, query string) []event.Event {
	return Search(FilterCategory(events, category), query)
}

// Group partitions events by normalized category, preserving the order in
// which each category is first encountered and the record order within it.
func Group(events []event.Event) []Section {
	index := make(map[string]int, len(events))
	sections := make([]Section, 0, len(events))
	for _, e := range events {
		cat := e.NormalizedCategory()
		i, ok := index[cat]
		if !ok {
			i = len(sections)
			index[cat] = i
			sections = append(sections, Section{Category: cat})
		}
		sections[i].Events = append(sections[i].Events, e)
	}
	return sections
}

// Categories returns the filter chip list: CategoryAll followed by each
// distinct normalized category in first-encounter order. It is always
// derived from the unfiltered snapshot so chips stay stable while filtering.
func Categories(events []event.Event) []string {
	seen := make(map[string]struct{}, len(events))
	out := []string{event.CategoryAll}
	for _, e := range events {
		cat := e.NormalizedCategory()
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}

// Aggregate computes counters over the full (unfiltered) snapshot. A record
// is upcoming when its date string compares lexically >= today; records with
// no date are excluded, not treated as upcoming.
func Aggregate(events []event.Event, today string) Stats {
	s := Stats{Total: len(events)}
	for _, e := range events {
		if e.Favorite {
			s.Favorite++
		}
		if e.Registered {
			s.Registered++
		}
		if e.Date != "" && e.Date >= today {
			s.Upcoming++
		}
	}
	return s
}

// TopFavorites returns the first n favorited records in snapshot order.
func TopFavorites(events []event.Event, n int) []event.Event {
	return firstMatching(events, n, func(e event.Event) bool { return e.Favorite })
}

// TopRegistered returns the first n registered records in snapshot order.
func TopRegistered(events []event.Event, n int) []event.Event {
	return firstMatching(events, n, func(e event.Event) bool { return e.Registered })
}

func firstMatching(events []event.Event, n int, keep func(event.Event) bool) []event.Event {
	out := make([]event.Event, 0, n)
	for _, e := range events {
		if !keep(e) {
			continue
		}
		out = append(out, e)
		if len(out) == n {
			break
		}
	}
	return out
}
