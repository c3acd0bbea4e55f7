// Package observability installs the global OpenTelemetry providers.
package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/janhq/amo-server/internal/config"
)

const metricExportInterval = 30 * time.Second

// Shutdown flushes and stops the providers installed by Setup.
type Shutdown func(ctx context.Context) error

type providers struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// Setup installs tracer and meter providers. Spans and metrics are exported
// over OTLP/HTTP only when tracing is enabled and an endpoint is set;
// otherwise the providers record locally and export nothing.
func Setup(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Shutdown, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.Environment),
		attribute.String("environment", cfg.Environment),
	))
	if err != nil {
		return nil, err
	}

	var p *providers
	if cfg.EnableTracing && cfg.OTLPEndpoint != "" {
		p, err = exporting(ctx, res, cfg.OTLPEndpoint)
		if err != nil {
			return nil, err
		}
		log.Info().Str("endpoint", cfg.OTLPEndpoint).Msg("OTLP export enabled")
	} else {
		p = &providers{
			tracer: sdktrace.NewTracerProvider(sdktrace.WithResource(res)),
			meter:  sdkmetric.NewMeterProvider(sdkmetric.WithResource(res)),
		}
		log.Debug().Msg("OTLP export disabled")
	}

	otel.SetTracerProvider(p.tracer)
	otel.SetMeterProvider(p.meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return errors.Join(p.meter.Shutdown(ctx), p.tracer.Shutdown(ctx))
	}, nil
}

func exporting(ctx context.Context, res *resource.Resource, rawEndpoint string) (*providers, error) {
	endpoint, insecure := normalizeEndpoint(rawEndpoint)

	traceOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	metricOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	spans, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, err
	}
	points, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		_ = spans.Shutdown(ctx)
		return nil, err
	}

	return &providers{
		tracer: sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(spans),
		),
		meter: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(points, sdkmetric.WithInterval(metricExportInterval))),
		),
	}, nil
}

// normalizeEndpoint strips the URL scheme, which the OTLP HTTP exporters
// reject, and reports whether the collector is plaintext.
func normalizeEndpoint(endpoint string) (host string, insecure bool) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		return rest, false
	}
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		return rest, true
	}
	return endpoint, true
}
