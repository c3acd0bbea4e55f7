package observability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/janhq/amo-server/internal/config"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in       string
		host     string
		insecure bool
	}{
		{"https://otel.example.com:4318", "otel.example.com:4318", false},
		{"http://collector:4318/", "collector:4318", true},
		{"collector:4318", "collector:4318", true},
	}
	for _, tt := range tests {
		host, insecure := normalizeEndpoint(tt.in)
		assert.Equal(t, tt.host, host, tt.in)
		assert.Equal(t, tt.insecure, insecure, tt.in)
	}
}

func TestSetupWithoutExport(t *testing.T) {
	cfg := &config.Config{ServiceName: "amo-test", Environment: "test"}
	shutdown, err := Setup(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "span")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}
