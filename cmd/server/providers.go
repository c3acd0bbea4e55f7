package main

import (
	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/config"
	"github.com/janhq/amo-server/internal/domain/assistant"
	"github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/domain/visual"
	"github.com/janhq/amo-server/internal/infrastructure/metrics"
	"github.com/janhq/amo-server/internal/infrastructure/openai"
	"github.com/janhq/amo-server/internal/infrastructure/store"
	"github.com/janhq/amo-server/pkg/telemetry"
)

// ProvideSanitizer provides the transcript sanitizer used in logs.
func ProvideSanitizer(cfg *config.Config) *telemetry.Sanitizer {
	return telemetry.NewSanitizer(telemetry.ParsePIILevel(cfg.LogPIILevel), cfg.ServiceName)
}

// ProvideOpenAIConfig provides the provider connection settings.
func ProvideOpenAIConfig(cfg *config.Config) openai.Config {
	return openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.OpenAIRequestTimeout,
	}
}

// ProvideOpenAIClient provides the chat, speech and transcription client.
func ProvideOpenAIClient(cfg openai.Config, log zerolog.Logger) assistant.Provider {
	return openai.NewClient(cfg, log)
}

// ProvideRealtimeClient provides the realtime session client.
func ProvideRealtimeClient(cfg openai.Config, log zerolog.Logger) realtime.SessionCreator {
	return openai.NewRealtimeClient(cfg, log)
}

// ProvideLeaseStore provides the in-memory lease store.
func ProvideLeaseStore(log zerolog.Logger) *store.MemoryStore {
	return store.NewMemoryStore(log)
}

// ProvideAssistantService provides the relay service.
func ProvideAssistantService(provider assistant.Provider, sanitizer *telemetry.Sanitizer, log zerolog.Logger) assistant.Service {
	return assistant.NewService(provider, sanitizer, log)
}

// ProvideRealtimeService provides the provisioning service.
func ProvideRealtimeService(creator realtime.SessionCreator, leases realtime.LeaseStore, cfg *config.Config, log zerolog.Logger) realtime.Service {
	return realtime.NewService(creator, leases, realtime.Defaults{
		Model:    cfg.RealtimeDefaultModel,
		Voice:    cfg.RealtimeDefaultVoice,
		LeaseTTL: cfg.LeaseTTL,
	}, log, realtime.WithIssueHook(metrics.RecordLeaseIssued))
}

// ProvideJanitor provides the lease cleanup job.
func ProvideJanitor(leases realtime.LeaseStore, cfg *config.Config, log zerolog.Logger) *store.Janitor {
	return store.NewJanitor(leases, cfg.LeaseCleanupCron, func(n int) {
		for i := 0; i < n; i++ {
			metrics.RecordLeaseExpired()
		}
	}, log)
}

// ProvideVisualService provides catalog lookups and detection.
func ProvideVisualService() (*visual.Service, error) {
	catalog, err := visual.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return visual.NewService(catalog), nil
}
