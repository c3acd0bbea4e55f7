// @title           Amo API
// @version         1.0
// @description     Shopping assistant relays, realtime voice provisioning and visual content.

// @contact.name   Jan Team
// @contact.url    https://github.com/janhq/amo-server

// @host      localhost:8188
// @BasePath  /

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/amo-server/internal/config"
	"github.com/janhq/amo-server/internal/infrastructure/logger"
	"github.com/janhq/amo-server/internal/infrastructure/observability"
	"github.com/janhq/amo-server/internal/infrastructure/store"
	"github.com/janhq/amo-server/internal/interfaces/httpserver"
)

// Application holds the main application components.
type Application struct {
	httpServer *httpserver.HTTPServer
	janitor    *store.Janitor
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *httpserver.HTTPServer, janitor *store.Janitor, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		janitor:    janitor,
		log:        log,
	}
}

// Start runs the HTTP server and the lease janitor until ctx is cancelled
// or either of them fails.
func (a *Application) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	a.log.Info().Msg("starting lease janitor and HTTP server")
	eg.Go(func() error {
		return a.janitor.Run(ctx)
	})
	eg.Go(func() error {
		return a.httpServer.Run(ctx)
	})
	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	if !cfg.HasProviderKey() {
		log.Warn().Msg("OPENAI_API_KEY is not set; relay and realtime routes will fail until it is configured")
	}

	app, err := CreateApplication(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create application")
	}

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
