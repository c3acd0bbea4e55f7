package openai

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/infrastructure/metrics"
	"github.com/janhq/amo-server/internal/utils/httpclients"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

const opRealtimeSession = "realtime_session"

// RealtimeClient mints ephemeral realtime sessions with the long-lived key.
type RealtimeClient struct {
	cfg  Config
	http *resty.Client
	log  zerolog.Logger
}

var _ realtime.SessionCreator = (*RealtimeClient)(nil)

func NewRealtimeClient(cfg Config, log zerolog.Logger) *RealtimeClient {
	return &RealtimeClient{
		cfg:  cfg,
		http: httpclients.NewClient("openai-realtime", cfg.timeout()),
		log:  log.With().Str("component", "openai-realtime").Logger(),
	}
}

// CreateSession posts the session body and returns the provider payload
// with its raw bytes preserved.
func (c *RealtimeClient) CreateSession(ctx context.Context, cfg realtime.SessionConfig) (*realtime.Credential, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeConfiguration,
			"OpenAI API key not configured", nil, "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a")
	}

	started := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetContentType("application/json").
		SetBody(cfg).
		Post(c.endpoint("/realtime/sessions"))
	if err != nil {
		metrics.RecordProviderCall(opRealtimeSession, started, err)
		c.log.Error().Err(err).Msg("realtime session request failed")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeTransport,
			"Failed to reach realtime provider", err, "0a1b2c3d-4e5f-4a6b-9c7d-8e9f0a1b2c3d")
	}

	if !resp.IsSuccess() {
		perr := errorFromResponse(ctx, resp, "Failed to create realtime session", "5e6f7a8b-9c0d-4e1f-8a2b-3c4d5e6f7a8b")
		metrics.RecordProviderCall(opRealtimeSession, started, perr)
		c.log.Error().Int("status", resp.StatusCode()).Msg("realtime provider rejected session request")
		return nil, perr
	}

	cred, err := realtime.ParseCredential(resp.Bytes())
	metrics.RecordProviderCall(opRealtimeSession, started, err)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeProtocol,
			"Invalid realtime session payload", err, "b1c2d3e4-f5a6-4b7c-8d9e-0f1a2b3c4d5e")
	}
	return cred, nil
}

func (c *RealtimeClient) endpoint(path string) string {
	return c.cfg.baseURL() + path
}

// errorFromResponse turns a non-2xx provider answer into an UPSTREAM error
// that carries the status and body.
func errorFromResponse(ctx context.Context, resp *resty.Response, message, uuid string) *platformerrors.PlatformError {
	body := strings.TrimSpace(resp.String())
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstream,
		message, nil, uuid,
		map[string]any{"status_code": resp.StatusCode(), "body": body})
}
