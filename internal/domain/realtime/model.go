package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	DefaultModel = "gpt-4o-realtime-preview-2024-10-01"
	DefaultVoice = "coral"

	// DefaultInstructions is the short advisor prompt used for live voice.
	DefaultInstructions = "You are **Amo**, an experienced yet brand-agnostic shopping advisor who helps people choose the *single best* option for big-ticket or complex purchases. Speak in a warm, concise tone. Be opinionated on quality and value, but never biased toward any brand or retailer. Follow your structured shopping advisory process while keeping responses conversational for voice interaction."

	ObjectSession = "realtime.session"
)

// Voices lists the voices the realtime provider accepts.
var Voices = []string{"alloy", "ash", "ballad", "coral", "echo", "sage", "shimmer", "verse"}

// SessionRequest is a client's request for a live voice credential. Empty
// fields take the defaults.
type SessionRequest struct {
	Model        string `json:"model,omitempty"`
	Voice        string `json:"voice,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// TurnDetection configures server-side voice activity detection.
type TurnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms"`
	SilenceDurationMs int     `json:"silence_duration_ms"`
}

// InputAudioTranscription selects the model that transcribes user audio.
type InputAudioTranscription struct {
	Model string `json:"model"`
}

// SessionConfig is the full session body sent to the provider.
type SessionConfig struct {
	Model                   string                   `json:"model"`
	Voice                   string                   `json:"voice"`
	Instructions            string                   `json:"instructions"`
	Modalities              []string                 `json:"modalities"`
	InputAudioFormat        string                   `json:"input_audio_format"`
	OutputAudioFormat       string                   `json:"output_audio_format"`
	InputAudioTranscription *InputAudioTranscription `json:"input_audio_transcription,omitempty"`
	TurnDetection           *TurnDetection           `json:"turn_detection,omitempty"`
	Temperature             float64                  `json:"temperature"`
	MaxResponseOutputTokens int                      `json:"max_response_output_tokens"`
}

// NewSessionConfig fills the fixed session parameters around the request.
func NewSessionConfig(model, voice, instructions string) SessionConfig {
	return SessionConfig{
		Model:                   model,
		Voice:                   voice,
		Instructions:            instructions,
		Modalities:              []string{"text", "audio"},
		InputAudioFormat:        "pcm16",
		OutputAudioFormat:       "pcm16",
		InputAudioTranscription: &InputAudioTranscription{Model: "whisper-1"},
		TurnDetection: &TurnDetection{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMs:   300,
			SilenceDurationMs: 500,
		},
		Temperature:             0.7,
		MaxResponseOutputTokens: 4096,
	}
}

// ClientSecret is the short-lived key a client uses to open the peer
// connection.
type ClientSecret struct {
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
}

// Credential is the provider's session payload. Raw keeps the payload exactly
// as received so it can be handed to the client unchanged.
type Credential struct {
	Raw json.RawMessage `json:"-"`

	ID                string         `json:"id"`
	Object            string         `json:"object"`
	Model             string         `json:"model"`
	Voice             string         `json:"voice"`
	Instructions      string         `json:"instructions"`
	Modalities        []string       `json:"modalities"`
	InputAudioFormat  string         `json:"input_audio_format"`
	OutputAudioFormat string         `json:"output_audio_format"`
	TurnDetection     *TurnDetection `json:"turn_detection,omitempty"`
	ClientSecret      ClientSecret   `json:"client_secret"`
}

// ParseCredential decodes a provider payload and keeps the raw bytes.
func ParseCredential(raw []byte) (*Credential, error) {
	var c Credential
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode realtime session: %w", err)
	}
	c.Raw = append(json.RawMessage(nil), raw...)
	return &c, nil
}

// EphemeralKey returns the client secret value.
func (c *Credential) EphemeralKey() string {
	if c == nil {
		return ""
	}
	return c.ClientSecret.Value
}

// ExpiresAt returns the secret expiry, or the zero time when unknown.
func (c *Credential) ExpiresAt() time.Time {
	if c == nil || c.ClientSecret.ExpiresAt <= 0 {
		return time.Time{}
	}
	return time.Unix(c.ClientSecret.ExpiresAt, 0)
}

// Lease records that a credential was issued. It never holds the secret.
type Lease struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Voice     string    `json:"voice"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the lease has passed its expiry at now.
func (l *Lease) Expired(now time.Time) bool {
	return !l.ExpiresAt.IsZero() && !now.Before(l.ExpiresAt)
}

// ListLeasesResponse is the list envelope for active leases.
type ListLeasesResponse struct {
	Object string   `json:"object"`
	Data   []*Lease `json:"data"`
}
