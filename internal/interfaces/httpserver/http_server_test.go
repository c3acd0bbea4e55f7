package httpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/amo-server/internal/config"
	"github.com/janhq/amo-server/internal/domain/assistant"
	"github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/domain/visual"
	"github.com/janhq/amo-server/internal/infrastructure/store"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/routes"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

type fakeProvider struct {
	mu         sync.Mutex
	reply      string
	audio      []byte
	transcript string
	err        error

	completions    []assistant.CompletionRequest
	speech         []assistant.SpeechParams
	transcriptions []assistant.TranscriptionParams
}

func (f *fakeProvider) ChatCompletion(ctx context.Context, req assistant.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completions = append(f.completions, req)
	return f.reply, f.err
}

func (f *fakeProvider) Speech(ctx context.Context, req assistant.SpeechParams) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speech = append(f.speech, req)
	return f.audio, f.err
}

func (f *fakeProvider) Transcription(ctx context.Context, req assistant.TranscriptionParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transcriptions = append(f.transcriptions, req)
	return f.transcript, f.err
}

type fakeCreator struct {
	raw   string
	err   error
	calls int
}

func (f *fakeCreator) CreateSession(ctx context.Context, cfg realtime.SessionConfig) (*realtime.Credential, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return realtime.ParseCredential([]byte(f.raw))
}

type testServer struct {
	handler  http.Handler
	provider *fakeProvider
	creator  *fakeCreator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServiceName:     "amo-test",
		Environment:     "test",
		CORSAllowOrigin: "*",
		ShutdownTimeout: time.Second,
		MaxUploadBytes:  assistant.MaxAudioBytes,
	}
	log := zerolog.Nop()

	provider := &fakeProvider{reply: "Happy to help you pick one.", audio: []byte("ID3-mp3"), transcript: "I need a stroller"}
	expires := time.Now().Add(time.Minute).Unix()
	creator := &fakeCreator{raw: fmt.Sprintf(`{"id":"sess_123","object":"realtime.session","model":"gpt-4o-realtime-preview-2024-10-01","voice":"coral","client_secret":{"value":"ek_secret","expires_at":%d},"extra":{"kept":true}}`, expires)}

	assistantService := assistant.NewService(provider, nil, log)
	realtimeService := realtime.NewService(creator, store.NewMemoryStore(log), realtime.Defaults{}, log)
	visualService := visual.NewService(visual.MustDefaultCatalog())

	handlerProvider := handlers.NewProvider(
		handlers.NewChatHandler(assistantService),
		handlers.NewVoiceHandler(cfg, assistantService, realtimeService, log),
		handlers.NewSearchHandler(assistantService, visualService),
		handlers.NewVisualHandler(visualService),
	)
	srv := New(cfg, log, routes.NewProvider(handlerProvider))

	return &testServer{handler: srv.Handler(), provider: provider, creator: creator}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, field, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, w.WriteField("note", "no file"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/voice/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) platformerrors.HTTPErrorDetail {
	t.Helper()
	var body platformerrors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return *body.Error
}

func userTurns(text string) []map[string]string {
	return []map[string]string{{"role": "user", "content": text}}
}

func TestCoreRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider_key_ok":false`)

	rec = s.do(http.MethodOptions, "/chat", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestChatEchoesSessionID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/chat", map[string]any{
		"messages":  userTurns("I need a stroller"),
		"sessionId": "session-42",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session-42", resp.SessionID)
	assert.NotEmpty(t, resp.Message)

	require.Len(t, s.provider.completions, 1)
	assert.Equal(t, assistant.ChatModel, s.provider.completions[0].Model)
	assert.Equal(t, assistant.ChatMaxTokens, s.provider.completions[0].MaxTokens)
}

func TestChatValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing session", map[string]any{"messages": userTurns("hi")}},
		{"null session", map[string]any{"messages": userTurns("hi"), "sessionId": nil}},
		{"messages not an array", map[string]any{"messages": "hi", "sessionId": "s"}},
		{"bad role", map[string]any{"messages": []map[string]string{{"role": "system", "content": "x"}}, "sessionId": "s"}},
		{"empty messages", map[string]any{"messages": []any{}, "sessionId": "s"}},
		{"not json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation_error", decodeError(t, rec).Type)
		})
	}
	assert.Empty(t, s.provider.completions)
}

func TestChatAcceptsEmptySessionID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/chat", map[string]any{
		"messages":  userTurns("I need a stroller"),
		"sessionId": "",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "", body["sessionId"])
	assert.NotEmpty(t, body["message"])
}

func TestChatUpstreamFailureIs500(t *testing.T) {
	s := newTestServer(t)
	s.provider.err = platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstream,
		"rate limited", nil, "11111111-2222-4333-8444-555555555555")

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}],"sessionId":"s"}`))
	req.Header.Set("X-Request-ID", "req-7")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "upstream_error", detail.Type)
	assert.Equal(t, "11111111-2222-4333-8444-555555555555", detail.Code)
	assert.Equal(t, "req-7", detail.RequestID)
}

func TestSynthesizeBoundaries(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"max length", map[string]any{"text": strings.Repeat("a", 4096)}, http.StatusOK},
		{"too long", map[string]any{"text": strings.Repeat("a", 4097)}, http.StatusBadRequest},
		{"multibyte max length", map[string]any{"text": strings.Repeat("é", 4096)}, http.StatusOK},
		{"max speed", map[string]any{"text": "hi", "speed": 4.0}, http.StatusOK},
		{"speed too fast", map[string]any{"text": "hi", "speed": 4.01}, http.StatusBadRequest},
		{"min speed", map[string]any{"text": "hi", "speed": 0.25}, http.StatusOK},
		{"speed too slow", map[string]any{"text": "hi", "speed": 0.24}, http.StatusBadRequest},
		{"realtime only voice", map[string]any{"text": "hi", "voice": "coral"}, http.StatusBadRequest},
		{"missing text", map[string]any{"voice": "nova"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/voice/synthesize", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want == http.StatusOK {
				assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
				assert.Equal(t, "ID3-mp3", rec.Body.String())
			}
		})
	}
}

func TestSynthesizeDefaults(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/voice/synthesize", map[string]any{"text": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, s.provider.speech, 1)
	assert.Equal(t, "alloy", s.provider.speech[0].Voice)
	assert.Equal(t, 1.0, s.provider.speech[0].Speed)
	assert.Equal(t, assistant.SpeechModel, s.provider.speech[0].Model)
}

func TestTranscribeSizeBoundary(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "audio", "clip.webm", make([]byte, assistant.MaxAudioBytes))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"text":"I need a stroller"}`, rec.Body.String())
	require.Len(t, s.provider.transcriptions, 1)
	assert.Len(t, s.provider.transcriptions[0].Data, assistant.MaxAudioBytes)
	assert.Equal(t, "clip.webm", s.provider.transcriptions[0].Filename)

	rec = s.upload(t, "audio", "clip.webm", make([]byte, assistant.MaxAudioBytes+1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "too large")
	assert.Len(t, s.provider.transcriptions, 1)
}

func TestTranscribeMissingAudio(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No audio file provided", decodeError(t, rec).Message)

	rec = s.upload(t, "audio", "empty.webm", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.provider.transcriptions)
}

func TestTranscribeNamesExtensionlessUpload(t *testing.T) {
	s := newTestServer(t)

	wav := append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 64)...)
	rec := s.upload(t, "audio", "blob", wav)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, s.provider.transcriptions, 1)
	assert.Equal(t, "blob.wav", s.provider.transcriptions[0].Filename)
}

func TestRealtimeSessionPassesPayloadThrough(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/voice/realtime-session", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, s.creator.raw, rec.Body.String())

	rec = s.do(http.MethodPost, "/voice/realtime-session", map[string]any{"voice": "sage"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/voice/realtime-sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "ek_secret")

	var list realtime.ListLeasesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, "list", list.Object)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "sess_123", list.Data[0].ID)
}

func TestRealtimeSessionErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/voice/realtime-session", map[string]any{"voice": "nova"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, s.creator.calls)

	rec = s.do(http.MethodPost, "/voice/realtime-session", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.creator.err = platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure, platformerrors.ErrorTypeConfiguration,
		"OpenAI API key not configured", nil, "22222222-3333-4444-8555-666666666666")
	rec = s.do(http.MethodPost, "/voice/realtime-session", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "OpenAI API key not configured", decodeError(t, rec).Message)
}

func TestChatVoice(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/voice/chat-voice", map[string]any{"messages": "not an array"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Messages array is required", decodeError(t, rec).Message)

	rec = s.do(http.MethodPost, "/voice/chat-voice", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/voice/chat-voice", map[string]any{
		"messages": userTurns("what paddle should I buy?"),
		"voice":    "nova",
		"speed":    1.25,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Text      string `json:"text"`
		Audio     string `json:"audio"`
		AudioSize int    `json:"audioSize"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Happy to help you pick one.", resp.Text)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("ID3-mp3")), resp.Audio)
	assert.Equal(t, len("ID3-mp3"), resp.AudioSize)

	require.Len(t, s.provider.completions, 1)
	assert.Equal(t, assistant.VoiceMaxTokens, s.provider.completions[0].MaxTokens)
	assert.Equal(t, assistant.VoiceSystemPrompt, s.provider.completions[0].System)
	require.Len(t, s.provider.speech, 1)
	assert.Equal(t, "nova", s.provider.speech[0].Voice)
	assert.Equal(t, 1.25, s.provider.speech[0].Speed)
}

func TestProductSearchFiltersByMaxPrice(t *testing.T) {
	s := newTestServer(t)
	s.provider.reply = `{"products":[{"name":"Budget Paddle","price":"$49.99"},{"name":"Pro Paddle","price":"$1,299.00"},{"name":""}],"searchSummary":"Three paddles"}`

	rec := s.do(http.MethodPost, "/product-search", map[string]any{"criteria": "pickleball paddle", "maxPrice": 100})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result assistant.ProductSearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Budget Paddle", result.Products[0].Name)
	assert.Equal(t, "Three paddles", result.SearchSummary)
	assert.Empty(t, result.Error)
}

func TestProductSearchFallback(t *testing.T) {
	s := newTestServer(t)
	s.provider.reply = "Here are some great paddles!"

	rec := s.do(http.MethodPost, "/product-search", map[string]any{"criteria": "paddle"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"products":[],"searchSummary":"Here are some great paddles!","error":"Could not parse product data"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/product-search", map[string]any{"criteria": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search criteria is required", decodeError(t, rec).Message)
}

func TestSearchImages(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/search-images", map[string]any{"query": "pickleball paddle"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Images []visual.Image `json:"images"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Images, 2)
	assert.True(t, strings.HasPrefix(resp.Images[0].URL, "data:image/svg+xml,"))

	rec = s.do(http.MethodPost, "/search-images", "not json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Images, 1)
	assert.Equal(t, "Search Error", resp.Images[0].Title)

	rec = s.do(http.MethodPost, "/search-images", map[string]any{"query": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectVisual(t *testing.T) {
	s := newTestServer(t)

	detect := func(body map[string]any) visual.Detection {
		rec := s.do(http.MethodPost, "/visuals/detect", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var det visual.Detection
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &det))
		return det
	}

	det := detect(map[string]any{"messages": []string{"hi", "I just started playing pickleball"}})
	assert.Equal(t, visual.CategoryPickleball, det.Category)
	require.NotNil(t, det.Content)
	assert.Equal(t, "Pickleball Paddles - Expert Buying Guide", det.Content.Title)

	det = detect(map[string]any{"messages": []string{"hello there"}})
	assert.Equal(t, visual.CategoryDefault, det.Category)

	det = detect(map[string]any{"messages": []string{"looking for a baby car seat"}, "mode": "voice"})
	assert.Equal(t, visual.CategoryBabyCarSeat, det.Category)

	rec := s.do(http.MethodPost, "/visuals/detect", map[string]any{"messages": []string{"x"}, "mode": "radio"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVisual(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/visuals/stroller", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var content visual.Content
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &content))
	assert.Equal(t, "Baby Strollers - Safety, Age & Lifestyle Guide", content.Title)

	rec = s.do(http.MethodGet, "/visuals/submarine", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
