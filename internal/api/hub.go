// Package api provides HTTP API server functionality.
package api

import (
	"log/slog"
	"sync"

	"github.com/adityar/eventpin/internal/event"
)

const (
	defaultSubscriberBufferSize = 4
	defaultBroadcastBufferSize  = 16
)

// Subscriber represents an SSE client connection. Each delivery is the full
// collection, so a dropped delivery is harmless: the next one supersedes it.
type Subscriber struct {
	snapshots chan []event.Event
	done      chan struct{}
}

// Snapshots returns the channel for receiving collection snapshots.
func (s *Subscriber) Snapshots() <-chan []event.Event {
	return s.snapshots
}

// Done returns a channel that is closed when the subscriber is unsubscribed.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Hub fans the post-mutation snapshot out to SSE subscribers.
// Uses 1 goroutine + channel management pattern for thread safety.
type Hub struct {
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan []event.Event
	stop       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once

	subscriberBufferSize int
	logger               *slog.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubSubscriberBufferSize sets the buffer size for subscriber channels.
func WithHubSubscriberBufferSize(size int) HubOption {
	return func(h *Hub) {
		if size > 0 {
			h.subscriberBufferSize = size
		}
	}
}

// WithHubLogger sets the logger for the Hub.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHub creates a new snapshot hub.
// Call Run() to start the hub's event loop.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		register:             make(chan *Subscriber),
		unregister:           make(chan *Subscriber),
		broadcast:            make(chan []event.Event, defaultBroadcastBufferSize),
		stop:                 make(chan struct{}),
		stopped:              make(chan struct{}),
		subscriberBufferSize: defaultSubscriberBufferSize,
		logger:               slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the hub's event loop.
// This method blocks until Stop() is called.
// Should be called in a goroutine: go hub.Run()
func (h *Hub) Run() {
	clients := make(map[*Subscriber]struct{})
	defer close(h.stopped)

	for {
		select {
		case sub := <-h.register:
			clients[sub] = struct{}{}
			h.logger.Debug("subscriber registered", "count", len(clients))

		case sub := <-h.unregister:
			if _, ok := clients[sub]; ok {
				delete(clients, sub)
				close(sub.done)
				close(sub.snapshots)
				h.logger.Debug("subscriber unregistered", "count", len(clients))
			}

		case snap := <-h.broadcast:
			for sub := range clients {
				select {
				case sub.snapshots <- snap:
				default:
					// Channel full. Dropping is safe here because the next
					// snapshot carries the complete state anyway.
					h.logger.Warn("subscriber channel full, snapshot dropped",
						"events", len(snap),
					)
				}
			}

		case <-h.stop:
			for sub := range clients {
				close(sub.done)
				close(sub.snapshots)
			}
			return
		}
	}
}

// Stop stops the hub's event loop.
// Blocks until the hub has fully stopped.
// Safe to call multiple times (idempotent).
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	<-h.stopped
}

// Subscribe creates a new subscriber.
// The caller must call Unsubscribe when done.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		snapshots: make(chan []event.Event, h.subscriberBufferSize),
		done:      make(chan struct{}),
	}

	select {
	case h.register <- sub:
		return sub
	case <-h.stopped:
		// Hub is stopped, return a closed subscriber
		close(sub.done)
		close(sub.snapshots)
		return sub
	}
}

// Unsubscribe removes a subscriber.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	select {
	case h.unregister <- sub:
	case <-h.stopped:
		// Hub is stopped, nothing to do
	}
}

// Publish queues a snapshot for broadcast to all subscribers.
// Non-blocking: if the broadcast channel is full, the snapshot is dropped.
func (h *Hub) Publish(snap []event.Event) {
	if snap == nil {
		snap = []event.Event{}
	}

	select {
	case h.broadcast <- snap:
	case <-h.stopped:
		// Hub is stopped
	default:
		h.logger.Warn("broadcast channel full, snapshot dropped",
			"events", len(snap),
		)
	}
}
