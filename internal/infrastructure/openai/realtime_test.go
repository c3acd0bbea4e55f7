package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

const sessionPayload = `{"id":"sess_1","object":"realtime.session","model":"gpt-4o-realtime-preview-2024-10-01","voice":"coral","client_secret":{"value":"ek_123","expires_at":1893456000},"extra_field":true}`

func TestCreateSessionPostsFullBody(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/realtime/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk-live", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sessionPayload)
	}))
	defer srv.Close()

	c := NewRealtimeClient(Config{APIKey: "sk-live", BaseURL: srv.URL + "/v1"}, zerolog.Nop())
	cred, err := c.CreateSession(context.Background(), realtime.NewSessionConfig(realtime.DefaultModel, "coral", "be brief"))
	require.NoError(t, err)

	assert.Equal(t, "ek_123", cred.EphemeralKey())
	assert.JSONEq(t, sessionPayload, string(cred.Raw))

	assert.Equal(t, "be brief", body["instructions"])
	assert.Equal(t, []any{"text", "audio"}, body["modalities"])
	assert.Equal(t, "pcm16", body["output_audio_format"])
	td := body["turn_detection"].(map[string]any)
	assert.Equal(t, "server_vad", td["type"])
	assert.EqualValues(t, 300, td["prefix_padding_ms"])
	assert.EqualValues(t, 4096, body["max_response_output_tokens"])
}

func TestCreateSessionNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key"}}`)
	}))
	defer srv.Close()

	c := NewRealtimeClient(Config{APIKey: "sk-bad", BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.CreateSession(context.Background(), realtime.NewSessionConfig("m", "coral", "x"))
	require.Error(t, err)
	perr := platformerrors.GetPlatformError(err)
	require.NotNil(t, perr)
	assert.Equal(t, platformerrors.ErrorTypeUpstream, perr.Type)
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode())
	assert.Contains(t, perr.Context["body"], "bad key")
}

func TestCreateSessionUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewRealtimeClient(Config{APIKey: "sk", BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.CreateSession(context.Background(), realtime.NewSessionConfig("m", "coral", "x"))
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeTransport))
}

func TestSignalerExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realtime", r.URL.Path)
		assert.Equal(t, "gpt-4o-realtime-preview-2024-10-01", r.URL.Query().Get("model"))
		assert.Equal(t, "Bearer ek_123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/sdp", r.Header.Get("Content-Type"))
		offer, _ := io.ReadAll(r.Body)
		assert.Equal(t, "v=0\r\noffer", string(offer))
		w.Header().Set("Content-Type", "application/sdp")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "v=0\r\nanswer")
	}))
	defer srv.Close()

	s := NewSignaler(Config{BaseURL: srv.URL}, zerolog.Nop())
	answer, err := s.Exchange(context.Background(), realtime.DefaultModel, "ek_123", "v=0\r\noffer")
	require.NoError(t, err)
	assert.Equal(t, "v=0\r\nanswer", answer)
}

func TestSignalerNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSignaler(Config{BaseURL: srv.URL}, zerolog.Nop())
	_, err := s.Exchange(context.Background(), "m", "ek", "offer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SDP exchange failed: 403")
}
