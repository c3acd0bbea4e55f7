package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/janhq/amo-server/internal/infrastructure/metrics"
	"github.com/janhq/amo-server/internal/utils/httpclients"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

const opSDPExchange = "sdp_exchange"

// Signaler exchanges an SDP offer for the provider's answer using an
// ephemeral key.
type Signaler struct {
	baseURL string
	http    *resty.Client
	log     zerolog.Logger
}

func NewSignaler(cfg Config, log zerolog.Logger) *Signaler {
	return &Signaler{
		baseURL: cfg.baseURL(),
		http:    httpclients.NewClient("openai-sdp", cfg.timeout()),
		log:     log.With().Str("component", "openai-signaler").Logger(),
	}
}

func (s *Signaler) Exchange(ctx context.Context, model, ephemeralKey, offerSDP string) (string, error) {
	started := time.Now()
	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(ephemeralKey).
		SetContentType("application/sdp").
		SetQueryParam("model", model).
		SetBody(offerSDP).
		Post(s.baseURL + "/realtime")
	if err != nil {
		metrics.RecordProviderCall(opSDPExchange, started, err)
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeTransport,
			"SDP exchange failed", err, "c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e6f")
	}
	if !resp.IsSuccess() {
		perr := platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstream,
			fmt.Sprintf("SDP exchange failed: %d", resp.StatusCode()), nil, "e5f6a7b8-c9d0-4e1f-8a2b-3c4d5e6f7a8b",
			map[string]any{"status_code": resp.StatusCode(), "model": model})
		metrics.RecordProviderCall(opSDPExchange, started, perr)
		return "", perr
	}

	metrics.RecordProviderCall(opSDPExchange, started, nil)
	return string(resp.Bytes()), nil
}
