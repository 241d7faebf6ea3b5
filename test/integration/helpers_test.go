//go:build integration

// Package integration provides end-to-end integration tests for the Eventpin API.
package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/adityar/eventpin/internal/api"
	"github.com/adityar/eventpin/internal/app"
	"github.com/adityar/eventpin/internal/event"
	"github.com/adityar/eventpin/internal/store"
)

// TestApp holds all dependencies for integration tests.
type TestApp struct {
	Server *httptest.Server
	Store  *store.Store
	Hub    *api.Hub

	// Cleanup function to release resources
	cleanup func()
}

// NewTestApp creates a new test application with all dependencies wired up.
// Call Close() when done to release resources.
func NewTestApp(t *testing.T, opts ...TestAppOption) *TestApp {
	t.Helper()

	cfg := &testAppConfig{
		authEnabled: false,
		username:    "admin",
		password:    "password",
		sseSecret:   []byte("test-secret-key-32-bytes-long!!"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Create temporary directory for test database
	tmpDir, err := os.MkdirTemp("", "eventpin-integration-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.sqlite")
	st, err := store.Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open store: %v", err)
	}

	// Create hub and services
	hub := api.NewHub()
	go hub.Run()

	healthService := app.HealthService{}
	eventsService := &app.EventsService{Store: st}
	commandsService := &app.CommandsService{
		Store:             st,
		Hub:               hub,
		OrganizerWhatsApp: cfg.organizerWhatsApp,
	}
	statsService := app.NewStatsService(st)

	// Build server options
	serverOpts := []api.ServerOption{
		api.WithEventsUsecase(eventsService),
		api.WithCommandsUsecase(commandsService),
		api.WithStatsUsecase(statsService),
		api.WithHub(hub),
		api.WithSSESecret(cfg.sseSecret),
	}

	if cfg.authEnabled {
		serverOpts = append(serverOpts, api.WithBasicAuth(cfg.username, cfg.password))
	}

	// Create server (addr is ignored for httptest)
	server := api.NewServer("127.0.0.1:0", healthService, serverOpts...)

	// Create test server
	ts := httptest.NewServer(server.Handler())

	cleanup := func() {
		ts.Close()
		hub.Stop()
		st.Close()
		os.RemoveAll(tmpDir)
	}

	return &TestApp{
		Server:  ts,
		Store:   st,
		Hub:     hub,
		cleanup: cleanup,
	}
}

// Close releases all resources.
func (app *TestApp) Close() {
	if app.cleanup != nil {
		app.cleanup()
	}
}

// URL returns the base URL of the test server.
func (app *TestApp) URL() string {
	return app.Server.URL
}

// InsertTestEvent pushes an event directly into the store and returns its ID.
func (app *TestApp) InsertTestEvent(t *testing.T, name, category string) string {
	t.Helper()

	ev := &event.Event{
		Name:        name,
		Category:    category,
		Coordinates: "-6.2, 106.816666",
		Date:        "2099-01-01",
		Time:        "19:00",
		Attendees:   []string{},
	}

	id, err := app.Store.PushEvent(context.Background(), ev)
	if err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}
	return id
}

// testAppConfig holds configuration for test app.
type testAppConfig struct {
	authEnabled       bool
	username          string
	password          string
	organizerWhatsApp string
	sseSecret         []byte
}

// TestAppOption configures a test app.
type TestAppOption func(*testAppConfig)

// WithAuth enables authentication for the test app.
func WithAuth(username, password string) TestAppOption {
	return func(cfg *testAppConfig) {
		cfg.authEnabled = true
		cfg.username = username
		cfg.password = password
	}
}

// WithOrganizerWhatsApp enables the whatsapp registration method.
func WithOrganizerWhatsApp(number string) TestAppOption {
	return func(cfg *testAppConfig) {
		cfg.organizerWhatsApp = number
	}
}
