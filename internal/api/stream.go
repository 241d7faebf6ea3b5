package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adityar/eventpin/internal/event"
)

// heartbeatInterval is the interval for sending SSE heartbeat comments.
const heartbeatInterval = 20 * time.Second

// handleStream handles GET /api/v1/stream (SSE).
//
// Every delivery is the full collection under the event name "snapshot";
// there is no delta protocol and no replay cursor. A client that reconnects
// simply gets the current snapshot again, which is why the initial send
// happens before the hub loop below.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Subscribe before the initial read so a mutation landing in between is
	// not lost: at worst the client sees the same snapshot twice.
	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	fmt.Fprintf(w, ": connected\n\n")

	// A failed initial read is terminal for this subscription: the client must
	// be able to tell "store unavailable" apart from "no events yet", so an
	// explicit error event is sent and the stream is closed instead of idling
	// on heartbeats.
	snap, err := s.events.Snapshot(r.Context())
	if err != nil {
		fmt.Fprintf(w, "event: error\n")
		fmt.Fprintf(w, "data: {\"error\":\"snapshot unavailable\"}\n\n")
		flusher.Flush()
		return
	}
	writeSSESnapshot(w, snap)
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()

	for {
		select {
		case snap, ok := <-sub.Snapshots():
			if !ok {
				// Channel closed, subscriber removed
				return
			}

			writeSSESnapshot(w, snap)
			flusher.Flush()

		case <-ticker.C:
			// Heartbeat comment to keep the connection alive
			fmt.Fprintf(w, ":\n\n")
			flusher.Flush()

		case <-ctx.Done():
			// Client disconnected
			return

		case <-sub.Done():
			// Subscriber removed (hub stopped)
			return
		}
	}
}

// writeSSESnapshot writes one full-collection delivery in SSE format.
func writeSSESnapshot(w http.ResponseWriter, snap []event.Event) {
	if snap == nil {
		snap = []event.Event{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "event: snapshot\n")
	fmt.Fprintf(w, "data: %s\n\n", data)
}
