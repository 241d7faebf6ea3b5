package api

import (
	"net/http"

	"github.com/adityar/eventpin/internal/app"
)

// handleGetConfig handles GET /api/v1/config requests.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	result := s.cfg.GetConfig(r.Context())
	writeJSON(w, http.StatusOK, result)
}

// handlePutConfig handles PUT /api/v1/config requests.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req app.ConfigUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.cfg.UpdateConfig(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
