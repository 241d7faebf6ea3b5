// Package ical renders the event collection as an iCalendar feed.
package ical

import (
	"context"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/adityar/eventpin/internal/event"
)

// defaultDuration is used when a record has a start time but no end.
const defaultDuration = 2 * time.Hour

// SnapshotSource provides the events to render.
type SnapshotSource interface {
	Snapshot(ctx context.Context) ([]event.Event, error)
}

// Feed renders the collection as a VCALENDAR document.
type Feed struct {
	Source SnapshotSource
	// ProdID identifies the generator in the calendar header.
	ProdID string
}

// ICS serializes the current snapshot. Date strings are stored opaque and
// compared lexically everywhere else; only here are they parsed, and records
// whose date or time does not parse are skipped rather than failing the feed.
func (f *Feed) ICS(ctx context.Context) (string, error) {
	events, err := f.Source.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("ical: snapshot: %w", err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	prodID := f.ProdID
	if prodID == "" {
		prodID = "-//eventpin//feed//EN"
	}
	cal.SetProductId(prodID)

	for i := range events {
		e := &events[i]
		start, ok := parseStart(e.Date, e.Time)
		if !ok {
			continue
		}

		ve := cal.AddEvent(e.ID + "@eventpin")
		ve.SetStartAt(start)
		ve.SetEndAt(start.Add(defaultDuration))
		ve.SetSummary(e.Name)
		if e.Detail != "" {
			ve.SetDescription(e.Detail)
		}
		if e.Coordinates != "" {
			ve.SetLocation(e.Coordinates)
		}
		ve.SetDtStampTime(time.Now().UTC())
	}

	return cal.Serialize(), nil
}

// parseStart combines the ISO date and clock time fields. A missing or
// unparsable time degrades to midnight; a missing or unparsable date skips
// the record.
func parseStart(date, clock string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, false
	}
	if clock != "" {
		if t, err := time.Parse("15:04", clock); err == nil {
			return d.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), true
		}
	}
	return d, true
}
