package api

import (
	"errors"
	"net/http"

	"github.com/adityar/eventpin/internal/event"
	"github.com/adityar/eventpin/internal/mapbridge"
	"github.com/adityar/eventpin/internal/register"
	"github.com/adityar/eventpin/internal/store"
	"github.com/adityar/eventpin/internal/view"
)

// eventsResponse represents the response for the events endpoint.
type eventsResponse struct {
	Items []event.Event `json:"items"`
}

// groupedResponse represents the response for the grouped events endpoint.
type groupedResponse struct {
	Sections []view.Section `json:"sections"`
}

// handleEvents handles GET /api/v1/events?category=&q=
// Filters run in their fixed order: category first, then search.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap, err := s.events.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}

	q := r.URL.Query()
	items := view.Apply(snap, q.Get("category"), q.Get("q"))

	writeJSON(w, http.StatusOK, eventsResponse{Items: items})
}

// handleEvent handles GET /api/v1/events/{id}
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	e, err := s.events.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handleGrouped handles GET /api/v1/events/grouped?category=&q=
// Sections appear in first-encounter order of the filtered list.
func (s *Server) handleGrouped(w http.ResponseWriter, r *http.Request) {
	snap, err := s.events.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}

	q := r.URL.Query()
	items := view.Apply(snap, q.Get("category"), q.Get("q"))

	writeJSON(w, http.StatusOK, groupedResponse{Sections: view.Group(items)})
}

// handleCategories handles GET /api/v1/categories
// Always derived from the unfiltered snapshot.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	snap, err := s.events.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"categories": view.Categories(snap)})
}

// handleDirections handles GET /api/v1/events/{id}/directions
// Unlike map markers, directions require real coordinates: a record whose
// coordinate string cannot be parsed yields 422, not a link to 0,0.
func (s *Server) handleDirections(w http.ResponseWriter, r *http.Request) {
	e, err := s.events.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}

	url, err := register.DirectionsLink(e.Coordinates)
	if err != nil {
		if errors.Is(err, event.ErrInvalidCoordinates) {
			writeError(w, http.StatusUnprocessableEntity, "event has no usable coordinates", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// handleSupport handles GET /api/v1/events/{id}/support
// Returns a mailto link for reporting a problem with the event, prefilled
// with its name. 409 when no support address is configured.
func (s *Server) handleSupport(w http.ResponseWriter, r *http.Request) {
	e, err := s.events.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}

	if s.supportEmail == "" {
		writeError(w, http.StatusConflict, "support contact not configured", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url": register.SupportMailto(s.supportEmail, e.Name),
	})
}

// handleMarkers handles GET /api/v1/map/markers
func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	snap, err := s.events.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]mapbridge.Marker{
		"markers": mapbridge.BuildMarkers(snap),
	})
}
