package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/amo-server/internal/domain/conversation"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
	"github.com/janhq/amo-server/pkg/telemetry"
)

type fakeProvider struct {
	reply      string
	audio      []byte
	transcript string
	err        error

	completions    []CompletionRequest
	speeches       []SpeechParams
	transcriptions []TranscriptionParams
}

func (f *fakeProvider) ChatCompletion(_ context.Context, req CompletionRequest) (string, error) {
	f.completions = append(f.completions, req)
	return f.reply, f.err
}

func (f *fakeProvider) Speech(_ context.Context, req SpeechParams) ([]byte, error) {
	f.speeches = append(f.speeches, req)
	return f.audio, f.err
}

func (f *fakeProvider) Transcription(_ context.Context, req TranscriptionParams) (string, error) {
	f.transcriptions = append(f.transcriptions, req)
	return f.transcript, f.err
}

func (f *fakeProvider) calls() int {
	return len(f.completions) + len(f.speeches) + len(f.transcriptions)
}

func newTestService(p *fakeProvider) Service {
	return NewService(p, telemetry.NewSanitizer(telemetry.PIILevelHashed, "test"), zerolog.Nop())
}

func floatPtr(f float64) *float64 { return &f }

func userTurn(content string) conversation.Turn {
	return conversation.Turn{Role: conversation.RoleUser, Content: content}
}

func assertValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	pe := platformerrors.GetPlatformError(err)
	require.NotNil(t, pe)
	assert.Equal(t, platformerrors.ErrorTypeValidation, pe.Type)
	assert.Equal(t, message, pe.Message)
}

func TestChatPrependsSystemPrompt(t *testing.T) {
	p := &fakeProvider{reply: "What is your budget?"}
	svc := newTestService(p)

	reply, err := svc.Chat(context.Background(), ChatRequest{Turns: []conversation.Turn{userTurn("I need a couch")}})
	require.NoError(t, err)
	assert.Equal(t, "What is your budget?", reply)

	require.Len(t, p.completions, 1)
	got := p.completions[0]
	assert.Equal(t, ChatModel, got.Model)
	assert.Equal(t, ShoppingAssistantPrompt, got.System)
	assert.Equal(t, float32(0.7), got.Temperature)
	assert.Equal(t, 500, got.MaxTokens)
}

func TestChatEmptyCompletionReturnsFallback(t *testing.T) {
	svc := newTestService(&fakeProvider{reply: ""})

	reply, err := svc.Chat(context.Background(), ChatRequest{Turns: []conversation.Turn{userTurn("hi")}})
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestChatValidation(t *testing.T) {
	p := &fakeProvider{reply: "x"}
	svc := newTestService(p)

	_, err := svc.Chat(context.Background(), ChatRequest{})
	assertValidation(t, err, "Invalid request format")

	_, err = svc.Chat(context.Background(), ChatRequest{Turns: []conversation.Turn{{Role: "system", Content: "x"}}})
	assertValidation(t, err, "Invalid request format")

	assert.Zero(t, p.calls(), "validation happens before any provider call")
}

func TestChatPropagatesProviderError(t *testing.T) {
	upstream := platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeUpstream, "boom", nil, "")
	svc := newTestService(&fakeProvider{err: upstream})

	_, err := svc.Chat(context.Background(), ChatRequest{Turns: []conversation.Turn{userTurn("hi")}})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUpstream))
}

func TestSynthesizeBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		req     SpeechRequest
		wantErr string
	}{
		{name: "max length accepted", req: SpeechRequest{Text: strings.Repeat("a", 4096)}},
		{name: "multibyte counted by rune", req: SpeechRequest{Text: strings.Repeat("é", 4096)}},
		{name: "too long", req: SpeechRequest{Text: strings.Repeat("a", 4097)}, wantErr: "Text must be 4096 characters or less"},
		{name: "empty", req: SpeechRequest{}, wantErr: "Text is required and must be a string"},
		{name: "bad voice", req: SpeechRequest{Text: "hi", Voice: "coral"}, wantErr: "Invalid voice. Must be one of: alloy, echo, fable, onyx, nova, shimmer"},
		{name: "speed upper bound", req: SpeechRequest{Text: "hi", Speed: floatPtr(4.0)}},
		{name: "speed lower bound", req: SpeechRequest{Text: "hi", Speed: floatPtr(0.25)}},
		{name: "speed too fast", req: SpeechRequest{Text: "hi", Speed: floatPtr(4.01)}, wantErr: "Speed must be between 0.25 and 4.0"},
		{name: "speed zero", req: SpeechRequest{Text: "hi", Speed: floatPtr(0)}, wantErr: "Speed must be between 0.25 and 4.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{audio: []byte("mp3")}
			audio, err := newTestService(p).Synthesize(context.Background(), tt.req)
			if tt.wantErr != "" {
				assertValidation(t, err, tt.wantErr)
				assert.Zero(t, p.calls())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []byte("mp3"), audio)
		})
	}
}

func TestSynthesizeDefaults(t *testing.T) {
	p := &fakeProvider{audio: []byte("mp3")}
	_, err := newTestService(p).Synthesize(context.Background(), SpeechRequest{Text: "hello"})
	require.NoError(t, err)

	require.Len(t, p.speeches, 1)
	assert.Equal(t, SpeechParams{Model: "tts-1", Voice: "alloy", Input: "hello", Speed: 1.0}, p.speeches[0])
}

func TestTranscribeSizeLimit(t *testing.T) {
	p := &fakeProvider{transcript: "a stroller for twins"}
	svc := newTestService(p)

	text, err := svc.Transcribe(context.Background(), AudioClip{Name: "clip.webm", Data: make([]byte, MaxAudioBytes)})
	require.NoError(t, err)
	assert.Equal(t, "a stroller for twins", text)
	require.Len(t, p.transcriptions, 1)
	assert.Equal(t, "whisper-1", p.transcriptions[0].Model)
	assert.Equal(t, "en", p.transcriptions[0].Language)

	_, err = svc.Transcribe(context.Background(), AudioClip{Name: "clip.webm", Data: make([]byte, MaxAudioBytes+1)})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypePayloadTooLarge))
	assert.Equal(t, 400, platformerrors.ErrorTypeToHTTPStatus(platformerrors.ErrorTypePayloadTooLarge))

	_, err = svc.Transcribe(context.Background(), AudioClip{})
	assertValidation(t, err, "No audio file provided")
	assert.Len(t, p.transcriptions, 1)
}

func TestChatVoice(t *testing.T) {
	p := &fakeProvider{reply: "Sure, tell me more.", audio: []byte{1, 2, 3}}
	svc := newTestService(p)

	out, err := svc.ChatVoice(context.Background(), VoiceChatRequest{
		Turns: []conversation.Turn{userTurn("headphones")},
		Voice: "nova",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sure, tell me more.", out.Text)
	assert.Equal(t, []byte{1, 2, 3}, out.Audio)

	assert.Equal(t, VoiceSystemPrompt, p.completions[0].System)
	assert.Equal(t, 200, p.completions[0].MaxTokens)
	assert.Equal(t, "nova", p.speeches[0].Voice)
	assert.Equal(t, "Sure, tell me more.", p.speeches[0].Input)
}

func TestChatVoiceErrors(t *testing.T) {
	p := &fakeProvider{reply: ""}
	svc := newTestService(p)

	_, err := svc.ChatVoice(context.Background(), VoiceChatRequest{})
	assertValidation(t, err, "Messages array is required")

	_, err = svc.ChatVoice(context.Background(), VoiceChatRequest{Turns: []conversation.Turn{userTurn("hi")}})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUpstream))
	assert.Empty(t, p.speeches)
}

func TestProductSearchParsesAndFilters(t *testing.T) {
	p := &fakeProvider{reply: "```json\n" + `{
		"products": [
			{"name": "Paddle A", "price": "$49.99"},
			{"name": "Paddle B", "price": "$1,299.00"},
			{"name": "", "price": "$10"},
			{"name": "Paddle C", "price": "call for price"}
		],
		"searchSummary": "Paddles"
	}` + "\n```"}
	svc := newTestService(p)

	max := decimal.NewFromInt(100)
	res, err := svc.ProductSearch(context.Background(), ProductSearchRequest{Criteria: "  paddle under $100 ", MaxPrice: &max})
	require.NoError(t, err)
	assert.Equal(t, "Paddles", res.SearchSummary)
	assert.Empty(t, res.Error)

	names := make([]string, 0, len(res.Products))
	for _, prod := range res.Products {
		names = append(names, prod.Name)
	}
	assert.Equal(t, []string{"Paddle A", "Paddle C"}, names)

	require.Len(t, p.completions, 1)
	assert.Equal(t, ProductSearchPrompt, p.completions[0].System)
	assert.Equal(t, 1500, p.completions[0].MaxTokens)
	assert.Equal(t,
		"Find real products based on these criteria: paddle under $100. Please provide at least 5 different products with actual shopping links.",
		p.completions[0].Turns[0].Content)
}

func TestProductSearchFallbackOnInvalidJSON(t *testing.T) {
	svc := newTestService(&fakeProvider{reply: "Here are some ideas..."})

	res, err := svc.ProductSearch(context.Background(), ProductSearchRequest{Criteria: "tent"})
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	assert.NotNil(t, res.Products)
	assert.Equal(t, "Here are some ideas...", res.SearchSummary)
	assert.Equal(t, "Could not parse product data", res.Error)
}

func TestProductSearchValidation(t *testing.T) {
	p := &fakeProvider{}
	_, err := newTestService(p).ProductSearch(context.Background(), ProductSearchRequest{Criteria: "   "})
	assertValidation(t, err, "Search criteria is required")
	assert.Zero(t, p.calls())
}

func TestProductSearchProviderError(t *testing.T) {
	svc := newTestService(&fakeProvider{err: errors.New("dial tcp: refused")})
	_, err := svc.ProductSearch(context.Background(), ProductSearchRequest{Criteria: "tent"})
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	tests := map[string]string{
		"$49.99":    "49.99",
		"$1,299":    "1299",
		"From $199": "199",
		"$150-400+": "150",
	}
	for in, want := range tests {
		got, ok := ParsePrice(in)
		require.True(t, ok, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s parsed as %s", in, got)
	}

	_, ok := ParsePrice("free")
	assert.False(t, ok)
}
