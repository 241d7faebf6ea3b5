package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/adityar/eventpin/internal/app"
)

// MapRenderer drives the headless map renderer: reloading the page and
// capturing the rendered map as an image.
type MapRenderer interface {
	Refresh(ctx context.Context) error
	CapturePNG(ctx context.Context) ([]byte, error)
}

// CalendarFeed renders the collection as an iCalendar document.
type CalendarFeed interface {
	ICS(ctx context.Context) (string, error)
}

// Server represents the HTTP API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux

	// Use case dependencies
	health   app.HealthUsecase
	events   app.EventsUsecase
	commands app.CommandsUsecase
	stats    app.StatsUsecase
	cfg      app.ConfigUsecase

	// SSE hub
	hub *Hub

	// Optional surfaces
	renderer     MapRenderer
	calendar     CalendarFeed
	mapPage      []byte
	supportEmail string

	limiter     *RateLimiter
	corsOrigins []string

	// Auth configuration
	authEnabled  bool
	authUsername string
	authPassword string
	authLimiter  *AuthFailureLimiter
	sseSecret    []byte
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithEventsUsecase sets the events read use case.
func WithEventsUsecase(events app.EventsUsecase) ServerOption {
	return func(s *Server) { s.events = events }
}

// WithCommandsUsecase sets the mutation commands use case.
func WithCommandsUsecase(commands app.CommandsUsecase) ServerOption {
	return func(s *Server) { s.commands = commands }
}

// WithStatsUsecase sets the stats use case.
func WithStatsUsecase(stats app.StatsUsecase) ServerOption {
	return func(s *Server) { s.stats = stats }
}

// WithConfigUsecase sets the config management use case.
func WithConfigUsecase(cfg app.ConfigUsecase) ServerOption {
	return func(s *Server) { s.cfg = cfg }
}

// WithHub sets the SSE hub.
func WithHub(hub *Hub) ServerOption {
	return func(s *Server) { s.hub = hub }
}

// WithMapRenderer enables the map refresh and snapshot endpoints.
func WithMapRenderer(r MapRenderer) ServerOption {
	return func(s *Server) { s.renderer = r }
}

// WithSupportEmail enables the per-event support contact link.
func WithSupportEmail(address string) ServerOption {
	return func(s *Server) { s.supportEmail = address }
}

// WithCalendarFeed enables the /calendar.ics endpoint.
func WithCalendarFeed(feed CalendarFeed) ServerOption {
	return func(s *Server) { s.calendar = feed }
}

// WithMapPage sets the HTML served at /map for the headless renderer.
func WithMapPage(page []byte) ServerOption {
	return func(s *Server) { s.mapPage = page }
}

// WithRateLimiter applies IP rate limiting to all routes.
func WithRateLimiter(rl *RateLimiter) ServerOption {
	return func(s *Server) { s.limiter = rl }
}

// WithCORS allows cross-origin requests from the given origins.
func WithCORS(origins []string) ServerOption {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithBasicAuth enables HTTP Basic Auth.
func WithBasicAuth(username, password string) ServerOption {
	return func(s *Server) {
		if username != "" && password != "" {
			s.authEnabled = true
			s.authUsername = username
			s.authPassword = password
		}
	}
}

// WithSSESecret sets the signing key for short-lived stream tokens.
func WithSSESecret(secret []byte) ServerOption {
	return func(s *Server) { s.sseSecret = secret }
}

// NewServer creates a new API server with the given dependencies.
func NewServer(addr string, health app.HealthUsecase, opts ...ServerOption) *Server {
	mux := http.NewServeMux()
	s := &Server{
		mux:    mux,
		health: health,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.authEnabled {
		s.authLimiter = NewAuthFailureLimiter(DefaultAuthFailureLimiterConfig())
	}
	s.registerRoutes()

	var handler http.Handler = mux
	if len(s.corsOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins:   s.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           86400,
		})
		handler = c.Handler(handler)
	}
	if s.limiter != nil {
		handler = s.limiter.Middleware(handler)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // Disable for SSE (long-lived connections)
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// wrapAuth wraps a handler with auth middleware if auth is enabled.
// Locked-out IPs are rejected before credentials are even checked.
func (s *Server) wrapAuth(h http.Handler) http.Handler {
	if !s.authEnabled {
		return h
	}
	h = basicAuthMiddleware(s.authUsername, s.authPassword, s.authLimiter)(h)
	return s.authLimiter.Middleware(h)
}

// wrapStreamAuth accepts Basic Auth or a ?token= stream token.
// EventSource cannot set headers, hence the token path.
func (s *Server) wrapStreamAuth(h http.Handler) http.Handler {
	if !s.authEnabled {
		return h
	}
	return sseTokenMiddleware(s.authUsername, s.authPassword, s.sseSecret)(h)
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health endpoint (no auth required)
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	if s.events != nil {
		secured := securityHeadersMiddleware
		s.mux.Handle("GET /api/v1/events", secured(s.wrapAuth(http.HandlerFunc(s.handleEvents))))
		s.mux.Handle("GET /api/v1/events/grouped", secured(s.wrapAuth(http.HandlerFunc(s.handleGrouped))))
		s.mux.Handle("GET /api/v1/events/{id}", secured(s.wrapAuth(http.HandlerFunc(s.handleEvent))))
		s.mux.Handle("GET /api/v1/events/{id}/directions", secured(s.wrapAuth(http.HandlerFunc(s.handleDirections))))
		s.mux.Handle("GET /api/v1/events/{id}/support", secured(s.wrapAuth(http.HandlerFunc(s.handleSupport))))
		s.mux.Handle("GET /api/v1/categories", secured(s.wrapAuth(http.HandlerFunc(s.handleCategories))))
		s.mux.Handle("GET /api/v1/map/markers", secured(s.wrapAuth(http.HandlerFunc(s.handleMarkers))))
	}

	if s.commands != nil {
		s.mux.Handle("POST /api/v1/events", s.wrapAuth(http.HandlerFunc(s.handleCreate)))
		s.mux.Handle("PUT /api/v1/events/{id}", s.wrapAuth(http.HandlerFunc(s.handleEdit)))
		s.mux.Handle("DELETE /api/v1/events/{id}", s.wrapAuth(http.HandlerFunc(s.handleDelete)))
		s.mux.Handle("POST /api/v1/events/{id}/favorite", s.wrapAuth(http.HandlerFunc(s.handleFavorite)))
		s.mux.Handle("POST /api/v1/events/{id}/register", s.wrapAuth(http.HandlerFunc(s.handleRegister)))
	}

	if s.stats != nil {
		s.mux.Handle("GET /api/v1/stats", s.wrapAuth(http.HandlerFunc(s.handleStats)))
	}

	if s.cfg != nil {
		s.mux.Handle("GET /api/v1/config", s.wrapAuth(http.HandlerFunc(s.handleGetConfig)))
		s.mux.Handle("PUT /api/v1/config", s.wrapAuth(http.HandlerFunc(s.handlePutConfig)))
	}

	// SSE stream endpoint (auth or stream token if configured)
	if s.hub != nil && s.events != nil {
		s.mux.Handle("GET /api/v1/stream", s.wrapStreamAuth(http.HandlerFunc(s.handleStream)))
	}

	if s.authEnabled && len(s.sseSecret) > 0 {
		s.mux.Handle("POST /api/v1/auth/token", s.wrapAuth(http.HandlerFunc(s.handleAuthToken)))
	}

	if s.calendar != nil {
		s.mux.Handle("GET /calendar.ics", s.wrapAuth(http.HandlerFunc(s.handleCalendar)))
	}

	// The map page is consumed by the local headless browser; it carries no
	// data itself (markers arrive via window.updateMarkers), so it stays
	// unauthenticated.
	if len(s.mapPage) > 0 {
		s.mux.HandleFunc("GET /map", s.handleMapPage)
	}
	if s.renderer != nil {
		s.mux.Handle("POST /api/v1/map/refresh", s.wrapAuth(http.HandlerFunc(s.handleMapRefresh)))
		s.mux.Handle("GET /api/v1/map/snapshot.png", s.wrapAuth(http.HandlerFunc(s.handleMapSnapshot)))
	}
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result, err := s.health.Handle(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
