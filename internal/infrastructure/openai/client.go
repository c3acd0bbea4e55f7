package openai

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/janhq/amo-server/internal/domain/assistant"
	"github.com/janhq/amo-server/internal/domain/conversation"
	"github.com/janhq/amo-server/internal/infrastructure/metrics"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

const (
	DefaultBaseURL        = "https://api.openai.com/v1"
	defaultRequestTimeout = 60 * time.Second

	opChat          = "chat_completion"
	opSpeech        = "speech"
	opTranscription = "transcription"
)

// Config holds provider connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func (c Config) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultRequestTimeout
	}
	return c.Timeout
}

// Client implements assistant.Provider on top of go-openai.
type Client struct {
	cfg    Config
	client *goopenai.Client
	log    zerolog.Logger
}

var _ assistant.Provider = (*Client)(nil)

// NewClient creates a provider client. A missing API key is not an error
// here; every call fails with a configuration error instead.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	oc := goopenai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.baseURL()
	oc.HTTPClient = &http.Client{Timeout: cfg.timeout()}

	return &Client{
		cfg:    cfg,
		client: goopenai.NewClientWithConfig(oc),
		log:    log.With().Str("component", "openai-client").Logger(),
	}
}

func (c *Client) ChatCompletion(ctx context.Context, req assistant.CompletionRequest) (string, error) {
	if err := c.requireKey(ctx); err != nil {
		return "", err
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Turns)+1)
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, t := range req.Turns {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    chatRole(t.Role),
			Content: t.Content,
		})
	}

	started := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	metrics.RecordProviderCall(opChat, started, err)
	if err != nil {
		return "", c.mapError(ctx, opChat, err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Speech(ctx context.Context, req assistant.SpeechParams) ([]byte, error) {
	if err := c.requireKey(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := c.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(req.Model),
		Input:          req.Input,
		Voice:          goopenai.SpeechVoice(req.Voice),
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
		Speed:          req.Speed,
	})
	if err != nil {
		metrics.RecordProviderCall(opSpeech, started, err)
		return nil, c.mapError(ctx, opSpeech, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	metrics.RecordProviderCall(opSpeech, started, err)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeTransport,
			"failed to read synthesized audio", err, "d4e5f6a7-b8c9-4d0e-9f1a-2b3c4d5e6f7a")
	}
	return audio, nil
}

func (c *Client) Transcription(ctx context.Context, req assistant.TranscriptionParams) (string, error) {
	if err := c.requireKey(ctx); err != nil {
		return "", err
	}

	started := time.Now()
	resp, err := c.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    req.Model,
		FilePath: req.Filename,
		Reader:   bytes.NewReader(req.Data),
		Language: req.Language,
		Format:   goopenai.AudioResponseFormatJSON,
	})
	metrics.RecordProviderCall(opTranscription, started, err)
	if err != nil {
		return "", c.mapError(ctx, opTranscription, err)
	}
	return resp.Text, nil
}

func (c *Client) requireKey(ctx context.Context) error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeConfiguration,
			"OpenAI API key not configured", nil, "f0e1d2c3-b4a5-4968-8776-5a4b3c2d1e0f")
	}
	return nil
}

// mapError turns provider failures into UPSTREAM errors when the provider
// answered with a non-2xx status and TRANSPORT errors otherwise.
func (c *Client) mapError(ctx context.Context, op string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		c.log.Error().Str("operation", op).Int("status", apiErr.HTTPStatusCode).Str("type", apiErr.Type).Msg("provider returned an error")
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstream,
			apiErr.Message, err, "2e3f4a5b-6c7d-4e8f-9a0b-1c2d3e4f5a6b",
			map[string]any{"status_code": apiErr.HTTPStatusCode, "operation": op})
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		c.log.Error().Str("operation", op).Int("status", reqErr.HTTPStatusCode).Msg("provider request failed")
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstream,
			"provider request failed", err, "7f8a9b0c-1d2e-4f3a-8b4c-5d6e7f8a9b0c",
			map[string]any{"status_code": reqErr.HTTPStatusCode, "body": string(reqErr.Body), "operation": op})
	}

	c.log.Error().Err(err).Str("operation", op).Msg("provider unreachable")
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeTransport,
		"provider unreachable", err, "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5e6f",
		map[string]any{"operation": op})
}

func chatRole(r conversation.Role) string {
	if r == conversation.RoleAssistant {
		return goopenai.ChatMessageRoleAssistant
	}
	return goopenai.ChatMessageRoleUser
}
