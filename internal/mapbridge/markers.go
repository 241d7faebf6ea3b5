// Package mapbridge projects events onto the embedded web map and drives a
// headless browser rendering it.
package mapbridge

import (
	"github.com/adityar/eventpin/internal/event"
)

// Marker is the wire shape handed to window.updateMarkers on the map page.
type Marker struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Emoji    string  `json:"emoji"`
	Detail   string  `json:"detail,omitempty"`
	Date     string  `json:"date,omitempty"`
	Time     string  `json:"time,omitempty"`
	Price    string  `json:"price,omitempty"`
	IsFree   bool    `json:"isFree"`
}

// Projection defaults for records missing display fields.
const (
	defaultMarkerName  = "Unknown"
	defaultMarkerPrice = "0"
)

// BuildMarkers projects a snapshot into map markers. Every record produces a
// marker: unparsable coordinates fall back to 0,0 rather than dropping the
// record, and missing name/price/emoji/color take display defaults.
func BuildMarkers(events []event.Event) []Marker {
	markers := make([]Marker, 0, len(events))
	for i := range events {
		e := &events[i]
		lat, lng := event.MarkerCoordinates(e.Coordinates)
		name := e.Name
		if name == "" {
			name = defaultMarkerName
		}
		price := e.Price
		if price == "" {
			price = defaultMarkerPrice
		}
		markers = append(markers, Marker{
			ID:       e.ID,
			Name:     name,
			Lat:      lat,
			Lng:      lng,
			Category: e.NormalizedCategory(),
			Color:    e.DisplayColor(),
			Emoji:    e.DisplayEmoji(),
			Detail:   e.Detail,
			Date:     e.Date,
			Time:     e.Time,
			Price:    price,
			IsFree:   e.IsFree,
		})
	}
	return markers
}
