//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/config"
	"workforce/services/chat-state/internal/domain/chat"
	"workforce/services/chat-state/internal/infrastructure/bridge"
	"workforce/services/chat-state/internal/infrastructure/idmap"
	"workforce/services/chat-state/internal/infrastructure/persistence"
	"workforce/services/chat-state/internal/interfaces/httpserver"
	"workforce/services/chat-state/internal/interfaces/httpserver/handlers"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideFileStore,
	ProvideBridgeClient,
	ProvideEventClient,
	ProvideTranslator,
	ProvideAgentRefresher,
	ProvideToolRunner,

	// Domain providers
	chat.NewStore,
	chat.NewService,
	ProvideSnapshotter,

	// Interface providers
	httpserver.New,

	// Application
	NewApplication,
)

// ProvideFileStore provides the durable key-value store.
func ProvideFileStore(cfg *config.Config, log zerolog.Logger) (*persistence.FileStore, error) {
	return persistence.NewFileStore(cfg.DataDir, log)
}

// ProvideBridgeClient provides the backend command client.
func ProvideBridgeClient(cfg *config.Config, log zerolog.Logger) *bridge.Client {
	return bridge.NewClient(cfg, log)
}

// ProvideEventClient provides the backend push event client.
func ProvideEventClient(cfg *config.Config, log zerolog.Logger) *bridge.EventClient {
	return bridge.NewEventClient(cfg, log)
}

// ProvideTranslator provides the identifier translator.
func ProvideTranslator(files *persistence.FileStore, log zerolog.Logger) *idmap.Translator {
	return idmap.NewTranslator(files, log)
}

// ProvideAgentRefresher provides the roster refresher for the HTTP layer.
func ProvideAgentRefresher(store *chat.Store, bc *bridge.Client) handlers.AgentRefresher {
	return &agentRefresher{store: store, bridge: bc}
}

// ProvideToolRunner provides the tool passthrough for the HTTP layer.
func ProvideToolRunner(bc *bridge.Client) handlers.ToolRunner {
	return bc
}

// ProvideSnapshotter provides the store snapshotter.
func ProvideSnapshotter(
	store *chat.Store,
	files *persistence.FileStore,
	cfg *config.Config,
	log zerolog.Logger,
) *chat.Snapshotter {
	return chat.NewSnapshotter(store, files, cfg.SnapshotInterval, log)
}

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(
	cfg *config.Config,
	log zerolog.Logger,
) (*Application, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
