package httpclients

import (
	"context"
	"time"

	"github.com/janhq/amo-server/internal/infrastructure/logger"

	"resty.dev/v3"
)

type HTTPClientStartsAt struct{}

// NewClient returns a resty client that logs method, path, status and latency
// of every call. Bodies are never logged since they carry credentials and
// user transcripts.
func NewClient(clientName string, timeout time.Duration) *resty.Client {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		ctx := context.WithValue(r.Context(), HTTPClientStartsAt{}, time.Now())
		r.SetContext(ctx)
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		startTime, _ := r.Request.Context().Value(HTTPClientStartsAt{}).(time.Time)

		event := log.Debug().
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Dur("latency", time.Since(startTime))
		if raw := r.Request.RawRequest; raw != nil {
			event = event.
				Str("method", raw.Method).
				Str("path", raw.URL.Path)
		}
		event.Msg("HTTP client request")
		return nil
	})
	return client
}
