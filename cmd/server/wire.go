//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/config"
	"github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/infrastructure/store"
	"github.com/janhq/amo-server/internal/interfaces"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideSanitizer,
	ProvideOpenAIConfig,
	ProvideOpenAIClient,
	ProvideRealtimeClient,
	ProvideLeaseStore,
	wire.Bind(new(realtime.LeaseStore), new(*store.MemoryStore)),
	ProvideJanitor,

	// Domain providers
	ProvideAssistantService,
	ProvideRealtimeService,
	ProvideVisualService,

	// Interface providers
	interfaces.InterfacesProvider,

	// Application
	NewApplication,
)

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(cfg *config.Config, log zerolog.Logger) (*Application, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
