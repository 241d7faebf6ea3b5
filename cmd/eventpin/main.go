// Package main provides the entry point for Eventpin.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/adityar/eventpin/internal/api"
	"github.com/adityar/eventpin/internal/app"
	"github.com/adityar/eventpin/internal/config"
	"github.com/adityar/eventpin/internal/ical"
	"github.com/adityar/eventpin/internal/mapbridge"
	"github.com/adityar/eventpin/internal/singleinstance"
	"github.com/adityar/eventpin/internal/store"
	"github.com/adityar/eventpin/internal/version"
	"github.com/adityar/eventpin/internal/whatsapp"
	"github.com/adityar/eventpin/webembed"
)

func main() {
	// 1. Single instance check (Windows: mutex, other: no-op)
	release, ok, err := singleinstance.AcquireLock()
	if err != nil {
		log.Fatalf("Failed to acquire lock: %v", err)
	}
	if !ok {
		log.Println("Another instance is already running")
		os.Exit(1)
	}
	defer release()

	// 2. Load configuration (corrupt config falls back to defaults with warning)
	cfg, _ := config.LoadConfig()
	cfg = config.ApplyEnvOverrides(cfg)
	secrets, secretsStatus, err := config.LoadSecrets()
	if err != nil {
		log.Printf("Warning: %v", err)
	}

	// 3. Ensure LAN auth credentials and the stream token secret
	updated, generatedPw, err := config.EnsureLanAuth(&secrets, cfg.LanEnabled)
	if err != nil {
		log.Fatalf("Failed to ensure LAN auth: %v", err)
	}
	sseUpdated, err := config.EnsureSSESecret(&secrets)
	if err != nil {
		log.Fatalf("Failed to ensure stream secret: %v", err)
	}
	updated = updated || sseUpdated

	// Only save if loaded successfully or file was missing (prevent overwrite on fallback)
	if updated && secretsStatus != config.SecretsFallback {
		if err := config.SaveSecrets(secrets); err != nil {
			log.Fatalf("Failed to save secrets: %v", err)
		}
		if generatedPw != "" {
			// Write password to file instead of logging
			pwPath, err := config.WritePasswordFile(secrets.BasicAuthUsername, generatedPw)
			if err != nil {
				log.Printf("Warning: failed to write password file: %v", err)
				// Fallback to log output if file write fails
				log.Println("=== GENERATED BASIC AUTH CREDENTIALS ===")
				log.Printf("Username: %s", secrets.BasicAuthUsername)
				log.Printf("Password: %s", generatedPw)
				log.Println("=========================================")
			} else {
				log.Println("=== BASIC AUTH CREDENTIALS GENERATED ===")
				log.Printf("Credentials saved to: %s", pwPath)
				log.Println("Delete this file after saving the credentials!")
				log.Println("=========================================")
			}
		}
	} else if updated && secretsStatus == config.SecretsFallback {
		log.Println("WARNING: Secrets file has errors; new credentials not saved to avoid data loss")
		log.Println("Please fix or delete secrets.json and restart")
	}

	// 4. Parse flags (port can override config)
	port := flag.Int("port", cfg.Port, "HTTP server port")
	flag.Parse()

	// 5. Open SQLite store
	if _, err := config.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to ensure data directory: %v", err)
	}
	dbPath, err := config.DatabasePath()
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// 6. Create cancellable context for background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. Create the snapshot hub and start its run loop
	hub := api.NewHub()
	go hub.Run()

	// 8. Optional WhatsApp sender for registration forwarding
	var sender app.MessageSender
	var wa *whatsapp.Service
	if cfg.WhatsAppEnabled {
		waDBPath, err := config.WhatsAppDatabasePath()
		if err != nil {
			log.Fatalf("Failed to resolve WhatsApp database path: %v", err)
		}
		wa, err = whatsapp.NewService(&whatsapp.Config{DBPath: waDBPath})
		if err != nil {
			log.Fatalf("Failed to create WhatsApp service: %v", err)
		}
		if err := wa.Connect(); err != nil {
			log.Fatalf("Failed to connect WhatsApp: %v", err)
		}
		defer wa.Disconnect()
		sender = wa
		log.Println("WhatsApp registration forwarding enabled")
	} else {
		log.Println("WhatsApp forwarding disabled")
	}

	// 9. Determine bind address
	host := "127.0.0.1"
	if cfg.LanEnabled {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, *port)

	// Build dependencies
	health := app.HealthService{Version: version.String()}
	eventsService := &app.EventsService{Store: db}
	commandsService := &app.CommandsService{
		Store:             db,
		Hub:               hub,
		Sender:            sender,
		OrganizerWhatsApp: cfg.OrganizerWhatsApp,
	}
	statsService := app.NewStatsService(db)
	configPath, err := config.ConfigPath()
	if err != nil {
		log.Fatalf("Failed to resolve config path: %v", err)
	}
	configService := app.ConfigService{ConfigPath: configPath}

	// Build server options
	serverOpts := []api.ServerOption{
		api.WithEventsUsecase(eventsService),
		api.WithCommandsUsecase(commandsService),
		api.WithStatsUsecase(statsService),
		api.WithConfigUsecase(configService),
		api.WithHub(hub),
		api.WithCalendarFeed(&ical.Feed{Source: db}),
		api.WithMapPage(webembed.MapPage()),
		api.WithSSESecret(secrets.SSESecretBytes()),
		api.WithSupportEmail(cfg.SupportEmail),
	}
	if len(cfg.CorsOrigins) > 0 {
		serverOpts = append(serverOpts, api.WithCORS(cfg.CorsOrigins))
	}

	// Enable Basic Auth and rate limiting for LAN mode
	// (credentials are guaranteed by EnsureLanAuth)
	var limiter *api.RateLimiter
	if cfg.LanEnabled {
		serverOpts = append(serverOpts, api.WithBasicAuth(secrets.BasicAuthUsername, secrets.BasicAuthPassword.Value()))
		limiter = api.NewRateLimiter(api.DefaultRateLimiterConfig())
		serverOpts = append(serverOpts, api.WithRateLimiter(limiter))
		log.Println("Basic Auth enabled for LAN mode")
	}

	// 10. Optional headless map renderer
	var bridge *mapbridge.Bridge
	if cfg.MapEnabled {
		bridge = mapbridge.NewBridge(fmt.Sprintf("http://127.0.0.1:%d/map", *port))
		serverOpts = append(serverOpts, api.WithMapRenderer(bridge))
	}

	server := api.NewServer(addr, health, serverOpts...)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Error channel for server errors
	errCh := make(chan error, 1)

	go func() {
		log.Printf("Starting Eventpin v%s on %s", version.String(), addr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Start the map bridge after the server goroutine so /map is reachable,
	// and keep it fed from the hub.
	if bridge != nil {
		go runMapBridge(ctx, bridge, hub, db)
	}

	// 11. Scheduled maintenance
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.MaintenanceSchedule, func() {
		if _, err := db.VacuumIfNeeded(ctx); err != nil {
			log.Printf("Vacuum error: %v", err)
		}
	}); err != nil {
		log.Printf("Warning: invalid maintenance schedule %q: %v", cfg.MaintenanceSchedule, err)
	}
	if bridge != nil {
		if _, err := scheduler.AddFunc(cfg.MapRefreshSchedule, func() {
			if err := bridge.Refresh(ctx); err != nil {
				log.Printf("Map refresh error: %v", err)
			}
		}); err != nil {
			log.Printf("Warning: invalid map refresh schedule %q: %v", cfg.MapRefreshSchedule, err)
		}
	}
	scheduler.Start()

	// Wait for shutdown signal or server error
	select {
	case <-done:
		log.Println("Shutting down...")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}

	// Stop background workers first
	cancel()
	<-scheduler.Stop().Done()
	if bridge != nil {
		bridge.Close()
	}
	if limiter != nil {
		limiter.Stop()
	}

	// Stop the snapshot hub (closes all subscriber channels)
	hub.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runMapBridge starts the headless renderer, seeds it with the current
// collection, and keeps it in sync with mutation snapshots from the hub.
func runMapBridge(ctx context.Context, bridge *mapbridge.Bridge, hub *api.Hub, db *store.Store) {
	// Subscribe before the initial read so no mutation snapshot is missed.
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	if snap, err := db.Snapshot(ctx); err != nil {
		log.Printf("Map bridge: initial snapshot error: %v", err)
	} else if err := bridge.Update(mapbridge.BuildMarkers(snap)); err != nil {
		log.Printf("Map bridge: initial update error: %v", err)
	}

	if err := bridge.Start(ctx); err != nil {
		log.Printf("Map bridge start error: %v", err)
		return
	}
	log.Println("Map renderer started")

	for {
		select {
		case snap, ok := <-sub.Snapshots():
			if !ok {
				return
			}
			if err := bridge.Update(mapbridge.BuildMarkers(snap)); err != nil {
				log.Printf("Map bridge update error: %v", err)
			}
		case <-sub.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}
