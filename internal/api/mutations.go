package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adityar/eventpin/internal/app"
	"github.com/adityar/eventpin/internal/store"
)

// maxBodySize limits mutation request bodies.
const maxBodySize = 1 << 20

// decodeBody decodes a JSON request body strictly. Returns false after
// writing the error response.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	return true
}

// writeCommandError maps use case errors onto HTTP statuses.
func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "event not found", nil)
	case errors.Is(err, app.ErrWhatsAppUnavailable):
		writeError(w, http.StatusConflict, "whatsapp registration not configured", nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

// handleCreate handles POST /api/v1/events
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var form app.EventForm
	if !decodeBody(w, r, &form) {
		return
	}

	e, err := s.commands.Create(r.Context(), form)
	if err != nil {
		writeCommandError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, e)
}

// handleEdit handles PUT /api/v1/events/{id}
// The submitted form replaces the whole record.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var form app.EventForm
	if !decodeBody(w, r, &form) {
		return
	}

	e, err := s.commands.Edit(r.Context(), r.PathValue("id"), form)
	if err != nil {
		writeCommandError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

// handleDelete handles DELETE /api/v1/events/{id}
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.commands.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeCommandError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFavorite handles POST /api/v1/events/{id}/favorite
func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	favorite, err := s.commands.ToggleFavorite(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorite": favorite})
}

// handleRegister handles POST /api/v1/events/{id}/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.commands.Register(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeCommandError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
