// Package backend is the HTTP client for the amo API, used by the CLI the
// way the web client uses the server.
package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/janhq/amo-server/internal/domain/conversation"
	rtsession "github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/domain/visual"
	"github.com/janhq/amo-server/internal/realtime"
	"github.com/janhq/amo-server/internal/utils/httpclients"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

const DefaultBaseURL = "http://localhost:8188"

// Client calls the amo API.
type Client struct {
	baseURL string
	http    *resty.Client
	log     zerolog.Logger
}

var _ realtime.CredentialSource = (*Client)(nil)

// New creates a client for baseURL. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    httpclients.NewClient("amo-backend", timeout),
		log:     log.With().Str("component", "backend-client").Logger(),
	}
}

// VoiceReply is a decoded /voice/chat-voice answer.
type VoiceReply struct {
	Text  string
	Audio []byte
}

// Chat sends the conversation and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, sessionID string, turns []conversation.Turn) (string, error) {
	var out struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
	}
	resp, err := c.request(ctx).
		SetBody(map[string]any{"messages": turns, "sessionId": sessionID}).
		SetResult(&out).
		Post(c.url("/chat"))
	if err := c.check(ctx, resp, err, "chat"); err != nil {
		return "", err
	}
	return out.Message, nil
}

// CreateRealtimeSession asks the server for an ephemeral credential.
func (c *Client) CreateRealtimeSession(ctx context.Context, req rtsession.SessionRequest) (*rtsession.Credential, error) {
	resp, err := c.request(ctx).
		SetBody(req).
		Post(c.url("/voice/realtime-session"))
	if err := c.check(ctx, resp, err, "realtime session"); err != nil {
		return nil, err
	}

	cred, err := rtsession.ParseCredential(resp.Bytes())
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerClient, platformerrors.ErrorTypeProtocol,
			"Invalid realtime session payload", err, "3e5a7c9d-1f2b-4c4d-8e6f-7a9b1c3d5e7f")
	}
	if cred.EphemeralKey() == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerClient, platformerrors.ErrorTypeProtocol,
			"Realtime session payload has no client secret", nil, "5a7c9e1f-3b4d-4e6f-9a8b-9c1d3e5f7a9b")
	}
	return cred, nil
}

// ChatVoice runs the combined chat and speech round-trip.
func (c *Client) ChatVoice(ctx context.Context, turns []conversation.Turn, voice string, speed *float64) (*VoiceReply, error) {
	var out struct {
		Text      string `json:"text"`
		Audio     string `json:"audio"`
		AudioSize int    `json:"audioSize"`
	}
	body := map[string]any{"messages": turns}
	if voice != "" {
		body["voice"] = voice
	}
	if speed != nil {
		body["speed"] = *speed
	}
	resp, err := c.request(ctx).
		SetBody(body).
		SetResult(&out).
		Post(c.url("/voice/chat-voice"))
	if err := c.check(ctx, resp, err, "voice chat"); err != nil {
		return nil, err
	}

	audio, err := base64.StdEncoding.DecodeString(out.Audio)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerClient, platformerrors.ErrorTypeProtocol,
			"Invalid audio encoding", err, "7c9e1a3b-5d6f-4a8b-8c0d-1e3f5a7b9c1d")
	}
	return &VoiceReply{Text: out.Text, Audio: audio}, nil
}

// Synthesize returns MP3 audio for text.
func (c *Client) Synthesize(ctx context.Context, text, voice string, speed *float64) ([]byte, error) {
	body := map[string]any{"text": text}
	if voice != "" {
		body["voice"] = voice
	}
	if speed != nil {
		body["speed"] = *speed
	}
	resp, err := c.request(ctx).
		SetBody(body).
		Post(c.url("/voice/synthesize"))
	if err := c.check(ctx, resp, err, "synthesize"); err != nil {
		return nil, err
	}
	return resp.Bytes(), nil
}

// Transcribe uploads a recording and returns its text.
func (c *Client) Transcribe(ctx context.Context, name string, data []byte) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&platformerrors.HTTPErrorResponse{}).
		SetFileReader("audio", name, bytes.NewReader(data)).
		SetResult(&out).
		Post(c.url("/voice/transcribe"))
	if err := c.check(ctx, resp, err, "transcribe"); err != nil {
		return "", err
	}
	return out.Text, nil
}

// DetectVisual classifies conversation text.
func (c *Client) DetectVisual(ctx context.Context, messages []string, mode visual.Mode) (*visual.Detection, error) {
	var out visual.Detection
	resp, err := c.request(ctx).
		SetBody(map[string]any{"messages": messages, "mode": mode}).
		SetResult(&out).
		Post(c.url("/visuals/detect"))
	if err := c.check(ctx, resp, err, "visual detection"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetContentType("application/json").
		SetError(&platformerrors.HTTPErrorResponse{})
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// check converts transport failures and error responses into platform
// errors. Server error bodies keep their message and code.
func (c *Client) check(ctx context.Context, resp *resty.Response, err error, op string) error {
	if err != nil {
		c.log.Debug().Err(err).Str("operation", op).Msg("backend request failed")
		return platformerrors.NewError(ctx, platformerrors.LayerClient, platformerrors.ErrorTypeTransport,
			fmt.Sprintf("%s: server unreachable", op), err, "9e1a3c5d-7f8b-4c0d-9e2f-3a5b7c9d1e3f")
	}
	if resp.IsSuccess() {
		return nil
	}

	message := fmt.Sprintf("%s failed: %s", op, resp.Status())
	fields := map[string]any{"status_code": resp.StatusCode()}
	if body, ok := resp.Error().(*platformerrors.HTTPErrorResponse); ok && body != nil && body.Error != nil {
		message = body.Error.Message
		if body.Error.Code != "" {
			fields["code"] = body.Error.Code
		}
		if body.Error.RequestID != "" {
			fields["request_id"] = body.Error.RequestID
		}
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerClient, platformerrors.ErrorTypeUpstream,
		message, nil, "1a3c5e7f-9b0d-4e2f-8a4b-5c7d9e1f3a5b", fields)
}
