package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/domain/conversation"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
	"github.com/janhq/amo-server/pkg/telemetry"
)

// Service relays stateless chat, speech and transcription requests to the
// model provider. Every request is validated before any network call.
type Service interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	ChatVoice(ctx context.Context, req VoiceChatRequest) (*VoiceReply, error)
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
	Transcribe(ctx context.Context, clip AudioClip) (string, error)
	ProductSearch(ctx context.Context, req ProductSearchRequest) (*ProductSearchResult, error)
}

type service struct {
	provider  Provider
	sanitizer *telemetry.Sanitizer
	log       zerolog.Logger
}

// NewService creates the relay service.
func NewService(provider Provider, sanitizer *telemetry.Sanitizer, log zerolog.Logger) Service {
	return &service{
		provider:  provider,
		sanitizer: sanitizer,
		log:       log.With().Str("component", "assistant-service").Logger(),
	}
}

func (s *service) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if err := validateStruct(ctx, req, msgInvalidRequest, "0c6f3a52-8f4e-4b77-a0a2-5d1e9b3c7f10"); err != nil {
		return "", err
	}

	reply, err := s.provider.ChatCompletion(ctx, CompletionRequest{
		Model:       ChatModel,
		System:      ShoppingAssistantPrompt,
		Turns:       req.Turns,
		Temperature: ChatTemperature,
		MaxTokens:   ChatMaxTokens,
	})
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(reply) == "" {
		s.log.Warn().Int("turns", len(req.Turns)).Msg("empty chat completion, returning fallback reply")
		return FallbackReply, nil
	}

	s.log.Debug().
		Int("turns", len(req.Turns)).
		Str("reply", s.sanitizer.Preview(reply, 80)).
		Msg("chat completion relayed")
	return reply, nil
}

func (s *service) ChatVoice(ctx context.Context, req VoiceChatRequest) (*VoiceReply, error) {
	if err := validateStruct(ctx, req, msgMessagesRequired, "7d2b9e41-3c5a-4f8e-b6d0-1a2c3e4f5a6b"); err != nil {
		return nil, err
	}
	voice, speed := speechDefaults(req.Voice, req.Speed)

	text, err := s.provider.ChatCompletion(ctx, CompletionRequest{
		Model:       ChatModel,
		System:      VoiceSystemPrompt,
		Turns:       req.Turns,
		Temperature: ChatTemperature,
		MaxTokens:   VoiceMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUpstream,
			"No response generated", nil, "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a5b")
	}

	audio, err := s.provider.Speech(ctx, SpeechParams{
		Model: SpeechModel,
		Voice: voice,
		Input: text,
		Speed: speed,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("turns", len(req.Turns)).
		Int("response_length", len(text)).
		Int("audio_size", len(audio)).
		Msg("voice chat successful")
	return &VoiceReply{Text: text, Audio: audio}, nil
}

func (s *service) Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error) {
	if err := validateStruct(ctx, req, msgInvalidRequest, "3a4b5c6d-7e8f-4091-a2b3-c4d5e6f7a8b9"); err != nil {
		return nil, err
	}
	voice, speed := speechDefaults(req.Voice, req.Speed)

	audio, err := s.provider.Speech(ctx, SpeechParams{
		Model: SpeechModel,
		Voice: voice,
		Input: req.Text,
		Speed: speed,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("text_length", len([]rune(req.Text))).
		Str("voice", voice).
		Int("audio_size", len(audio)).
		Msg("speech synthesis successful")
	return audio, nil
}

func (s *service) Transcribe(ctx context.Context, clip AudioClip) (string, error) {
	if len(clip.Data) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			msgNoAudio, nil, "9b8a7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d")
	}
	if len(clip.Data) > MaxAudioBytes {
		return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypePayloadTooLarge,
			msgAudioTooLarge, nil, "4c5d6e7f-8a9b-4c0d-9e1f-2a3b4c5d6e7f",
			map[string]any{"size": len(clip.Data), "limit": MaxAudioBytes})
	}

	name := clip.Name
	if name == "" {
		name = "audio.webm"
	}

	text, err := s.provider.Transcription(ctx, TranscriptionParams{
		Model:    TranscriptionModel,
		Language: TranscriptLanguage,
		Filename: name,
		Data:     clip.Data,
	})
	if err != nil {
		return "", err
	}

	s.log.Info().
		Str("file", name).
		Int("size", len(clip.Data)).
		Str("text", s.sanitizer.Preview(text, 80)).
		Msg("transcription successful")
	return text, nil
}

func (s *service) ProductSearch(ctx context.Context, req ProductSearchRequest) (*ProductSearchResult, error) {
	req.Criteria = strings.TrimSpace(req.Criteria)
	if err := validateStruct(ctx, req, msgCriteriaRequired, "b7c8d9e0-f1a2-4b3c-8d4e-5f6a7b8c9d0e"); err != nil {
		return nil, err
	}

	raw, err := s.provider.ChatCompletion(ctx, CompletionRequest{
		Model:  ChatModel,
		System: ProductSearchPrompt,
		Turns: []conversation.Turn{{
			Role:    conversation.RoleUser,
			Content: fmt.Sprintf(productSearchUserFormat, req.Criteria),
		}},
		Temperature: ChatTemperature,
		MaxTokens:   SearchMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUpstream,
			"No response from provider", nil, "c2d3e4f5-a6b7-4c8d-9e0f-1a2b3c4d5e6f")
	}

	result := parseProductSearch(raw)
	if result.Error != "" {
		s.log.Warn().Str("criteria", s.sanitizer.Preview(req.Criteria, 60)).Msg("product search output was not valid JSON")
	}
	result.Products = filterProducts(result.Products, req.MaxPrice)
	return &result, nil
}

func speechDefaults(voice string, speed *float64) (string, float64) {
	if voice == "" {
		voice = DefaultSpeechVoice
	}
	s := DefaultSpeechSpeed
	if speed != nil {
		s = *speed
	}
	return voice, s
}
