package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/config"
	"workforce/services/chat-state/internal/domain/chat"
	"workforce/services/chat-state/internal/infrastructure/bridge"
	"workforce/services/chat-state/internal/infrastructure/idmap"
	"workforce/services/chat-state/internal/infrastructure/logger"
	"workforce/services/chat-state/internal/infrastructure/observability"
	"workforce/services/chat-state/internal/infrastructure/persistence"
	"workforce/services/chat-state/internal/interfaces/httpserver"
)

// Application holds the main application components.
type Application struct {
	httpServer  *httpserver.HTTPServer
	snapshotter *chat.Snapshotter
	events      *bridge.EventClient
	service     *chat.Service
	store       *chat.Store
	bridgeCli   *bridge.Client
	log         zerolog.Logger

	detachStreams func()
	agentListener *chat.AgentListener
}

// NewApplication creates a new application instance.
func NewApplication(
	httpServer *httpserver.HTTPServer,
	snapshotter *chat.Snapshotter,
	events *bridge.EventClient,
	service *chat.Service,
	store *chat.Store,
	bridgeCli *bridge.Client,
	log zerolog.Logger,
) *Application {
	return &Application{
		httpServer:  httpServer,
		snapshotter: snapshotter,
		events:      events,
		service:     service,
		store:       store,
		bridgeCli:   bridgeCli,
		log:         log,
	}
}

// Start runs the application.
func (a *Application) Start(ctx context.Context) error {
	a.snapshotter.RestoreFromDisk()
	a.snapshotter.Start()

	a.events.Start(ctx)
	a.detachStreams = a.service.AttachEventHandlers(a.events)
	a.agentListener = chat.StartAgentListener(ctx, a.store, a.bridgeCli, a.events, a.log)

	// Best effort; the UI can trigger a sync once the backend is reachable.
	if err := a.service.SyncConversations(ctx); err != nil {
		a.log.Warn().Err(err).Msg("initial conversation sync failed")
	}

	// Run HTTP server (blocks until context cancelled)
	err := a.httpServer.Run(ctx)

	if a.agentListener != nil {
		a.agentListener.Stop()
	}
	if a.detachStreams != nil {
		a.detachStreams()
	}
	a.events.Stop()
	a.snapshotter.Stop()

	return err
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup observability
	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	// Durable local storage for snapshots and the id mapping table
	files, err := persistence.NewFileStore(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open data directory")
	}

	// Bridge to the native backend
	bridgeClient := bridge.NewClient(cfg, log)
	eventClient := bridge.NewEventClient(cfg, log)

	// Chat state store and its collaborators
	store := chat.NewStore(log)
	translator := idmap.NewTranslator(files, log)
	service := chat.NewService(store, bridgeClient, translator, log)
	snapshotter := chat.NewSnapshotter(store, files, cfg.SnapshotInterval, log)

	// Agent refresh goes through a thin adapter so the HTTP layer never
	// touches the bridge directly.
	refresher := &agentRefresher{store: store, bridge: bridgeClient}

	// Initialize HTTP server
	httpServer := httpserver.New(cfg, log, service, refresher, bridgeClient)

	// Create and start application
	app := NewApplication(httpServer, snapshotter, eventClient, service, store, bridgeClient, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// agentRefresher satisfies handlers.AgentRefresher without holding the whole
// listener.
type agentRefresher struct {
	store  *chat.Store
	bridge *bridge.Client
}

func (r *agentRefresher) Refresh(ctx context.Context) error {
	snapshots, err := r.bridge.RefreshAgentStatus(ctx)
	if err != nil {
		return err
	}
	r.store.SetAgentsFromSnapshot(snapshots)
	return nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
