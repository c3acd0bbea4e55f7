package handlers

import (
	"context"
	"encoding/base64"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/config"
	"github.com/janhq/amo-server/internal/domain/assistant"
	"github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/responses"
)

// VoiceHandler serves the batch voice relays and live session provisioning.
type VoiceHandler struct {
	assistant assistant.Service
	realtime  realtime.Service
	maxUpload int64
	log       zerolog.Logger
}

// NewVoiceHandler creates a new voice handler.
func NewVoiceHandler(cfg *config.Config, assistantService assistant.Service, realtimeService realtime.Service, log zerolog.Logger) *VoiceHandler {
	return &VoiceHandler{
		assistant: assistantService,
		realtime:  realtimeService,
		maxUpload: cfg.MaxUploadBytes,
		log:       log.With().Str("component", "voice-handler").Logger(),
	}
}

// UploadLimit is the largest audio upload accepted, in bytes.
func (h *VoiceHandler) UploadLimit() int64 {
	if h.maxUpload <= 0 || h.maxUpload > assistant.MaxAudioBytes {
		return assistant.MaxAudioBytes
	}
	return h.maxUpload
}

// CreateRealtimeSession provisions an ephemeral credential.
func (h *VoiceHandler) CreateRealtimeSession(ctx context.Context, req *requests.RealtimeSessionRequest) (*realtime.Credential, error) {
	return h.realtime.Provision(ctx, realtime.SessionRequest{
		Model:        req.Model,
		Voice:        req.Voice,
		Instructions: req.Instructions,
	})
}

// ListRealtimeSessions returns the unexpired leases.
func (h *VoiceHandler) ListRealtimeSessions(ctx context.Context) (*realtime.ListLeasesResponse, error) {
	leases, err := h.realtime.ActiveLeases(ctx)
	if err != nil {
		return nil, err
	}
	return &realtime.ListLeasesResponse{Object: "list", Data: leases}, nil
}

// ChatVoice answers the conversation and synthesizes the reply.
func (h *VoiceHandler) ChatVoice(ctx context.Context, req *requests.VoiceChatRequest) (*responses.VoiceChatResponse, error) {
	reply, err := h.assistant.ChatVoice(ctx, assistant.VoiceChatRequest{
		Turns: req.Messages,
		Voice: req.Voice,
		Speed: req.Speed,
	})
	if err != nil {
		return nil, err
	}
	return &responses.VoiceChatResponse{
		Text:      reply.Text,
		Audio:     base64.StdEncoding.EncodeToString(reply.Audio),
		AudioSize: len(reply.Audio),
	}, nil
}

// Synthesize converts text to MP3 audio.
func (h *VoiceHandler) Synthesize(ctx context.Context, req *requests.SynthesizeRequest) ([]byte, error) {
	return h.assistant.Synthesize(ctx, assistant.SpeechRequest{
		Text:  req.Text,
		Voice: req.Voice,
		Speed: req.Speed,
	})
}

// Transcribe converts an uploaded recording to text. A filename without an
// extension gets one from the sniffed content type, since the provider
// infers the container from it.
func (h *VoiceHandler) Transcribe(ctx context.Context, name string, data []byte) (*responses.TranscribeResponse, error) {
	if len(data) > 0 {
		mt := mimetype.Detect(data)
		if filepath.Ext(name) == "" && mt.Extension() != "" {
			if name == "" {
				name = "audio"
			}
			name += mt.Extension()
		}
		h.log.Debug().Str("file", name).Str("mime", mt.String()).Int("size", len(data)).Msg("audio upload received")
	}

	text, err := h.assistant.Transcribe(ctx, assistant.AudioClip{Name: name, Data: data})
	if err != nil {
		return nil, err
	}
	return &responses.TranscribeResponse{Text: text}, nil
}
