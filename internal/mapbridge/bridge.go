package mapbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// Default renderer parameters.
const (
	DefaultWidth      = 1280
	DefaultHeight     = 800
	DefaultTimeoutSec = 30
)

// Bridge drives a headless browser tab showing the embedded map page and
// pushes marker updates into it via window.updateMarkers.
//
// The page signals it has finished loading Leaflet and registering its update
// hook by setting data-ready="true" on its root element; the bridge waits for
// that signal instead of sleeping a fixed delay, so an update can never race
// page initialization. Markers delivered before Start are buffered and
// applied once the page is ready.
type Bridge struct {
	url     string
	width   int
	height  int
	timeout time.Duration
	logger  *slog.Logger

	mu        sync.Mutex
	tabCtx    context.Context
	tabCancel context.CancelFunc
	ready     bool
	last      []Marker
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithViewport sets the browser viewport dimensions.
func WithViewport(width, height int) BridgeOption {
	return func(b *Bridge) {
		if width > 0 && height > 0 {
			b.width = width
			b.height = height
		}
	}
}

// WithTimeout bounds each browser operation.
func WithTimeout(d time.Duration) BridgeOption {
	return func(b *Bridge) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithLogger sets the logger for the Bridge.
func WithLogger(logger *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBridge creates a Bridge pointed at the map page URL,
// e.g. "http://127.0.0.1:8090/map".
func NewBridge(url string, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		url:     url,
		width:   DefaultWidth,
		height:  DefaultHeight,
		timeout: DefaultTimeoutSec * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start launches the browser tab, navigates to the map page, and waits for
// its ready signal. Markers buffered before Start are delivered immediately
// after.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tabCtx != nil {
		return fmt.Errorf("mapbridge: already started")
	}

	tabCtx, cancel := chromedp.NewContext(ctx)
	b.tabCtx = tabCtx
	b.tabCancel = cancel

	if err := b.navigateLocked(); err != nil {
		b.closeLocked()
		return err
	}

	return b.deliverLocked()
}

// navigateLocked loads the page and blocks until data-ready="true".
func (b *Bridge) navigateLocked() error {
	runCtx, cancel := context.WithTimeout(b.tabCtx, b.timeout)
	defer cancel()

	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(b.width), int64(b.height)),
		chromedp.Navigate(b.url),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
	}
	if err := chromedp.Run(runCtx, tasks); err != nil {
		b.ready = false
		return fmt.Errorf("mapbridge: load map page: %w", err)
	}

	b.ready = true
	return nil
}

// deliverLocked pushes the buffered markers into the page.
func (b *Bridge) deliverLocked() error {
	if !b.ready || b.last == nil {
		return nil
	}

	payload, err := json.Marshal(b.last)
	if err != nil {
		return fmt.Errorf("mapbridge: marshal markers: %w", err)
	}

	runCtx, cancel := context.WithTimeout(b.tabCtx, b.timeout)
	defer cancel()

	expr := fmt.Sprintf("window.updateMarkers(%s)", payload)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(expr, nil)); err != nil {
		return fmt.Errorf("mapbridge: update markers: %w", err)
	}

	b.logger.Debug("markers delivered", "count", len(b.last))
	return nil
}

// Update replaces the marker set. Before Start (or while the page reloads)
// the set is only buffered; otherwise it is pushed into the page right away.
func (b *Bridge) Update(markers []Marker) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = markers
	if b.tabCtx == nil {
		return nil
	}
	return b.deliverLocked()
}

// Markers returns the last marker set handed to Update.
func (b *Bridge) Markers() []Marker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Refresh reloads the map page, waits for the ready signal again, and
// redelivers the buffered markers.
func (b *Bridge) Refresh(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tabCtx == nil {
		return fmt.Errorf("mapbridge: not started")
	}

	if err := b.navigateLocked(); err != nil {
		return err
	}
	return b.deliverLocked()
}

// CapturePNG takes a full screenshot of the rendered map.
func (b *Bridge) CapturePNG(ctx context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tabCtx == nil || !b.ready {
		return nil, fmt.Errorf("mapbridge: not started")
	}

	runCtx, cancel := context.WithTimeout(b.tabCtx, b.timeout)
	defer cancel()

	var png []byte
	if err := chromedp.Run(runCtx, chromedp.FullScreenshot(&png, 100)); err != nil {
		return nil, fmt.Errorf("mapbridge: screenshot: %w", err)
	}
	return png, nil
}

// Close shuts the browser tab down.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *Bridge) closeLocked() {
	if b.tabCancel != nil {
		b.tabCancel()
	}
	b.tabCtx = nil
	b.tabCancel = nil
	b.ready = false
}
