package api

import (
	"net/http"
)

// handleMapPage handles GET /map, serving the embedded Leaflet page the
// headless renderer navigates to.
func (s *Server) handleMapPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.mapPage)
}

// handleMapRefresh handles POST /api/v1/map/refresh, forcing the headless
// renderer to reload the page and redeliver the current markers.
func (s *Server) handleMapRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.renderer.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "map refresh failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"refreshed": true})
}

// handleMapSnapshot handles GET /api/v1/map/snapshot.png, serving a
// screenshot of the currently rendered map.
func (s *Server) handleMapSnapshot(w http.ResponseWriter, r *http.Request) {
	png, err := s.renderer.CapturePNG(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "map capture failed", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleCalendar handles GET /calendar.ics.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ics, err := s.calendar.ICS(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="eventpin.ics"`)
	w.Write([]byte(ics))
}
