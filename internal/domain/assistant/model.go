package assistant

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/janhq/amo-server/internal/domain/conversation"
)

const (
	ChatModel          = "gpt-4"
	SpeechModel        = "tts-1"
	TranscriptionModel = "whisper-1"

	ChatTemperature  float32 = 0.7
	ChatMaxTokens            = 500
	VoiceMaxTokens           = 200
	SearchMaxTokens          = 1500
	MaxSpeechRunes           = 4096
	MaxAudioBytes            = 25 * 1024 * 1024
	DefaultSpeechVoice       = "alloy"
	DefaultSpeechSpeed       = 1.0
	TranscriptLanguage       = "en"
)

// SpeechVoices lists the voices accepted by the speech endpoints.
var SpeechVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// Provider is the model provider the relays forward to.
type Provider interface {
	ChatCompletion(ctx context.Context, req CompletionRequest) (string, error)
	Speech(ctx context.Context, req SpeechParams) ([]byte, error)
	Transcription(ctx context.Context, req TranscriptionParams) (string, error)
}

// CompletionRequest is a single chat completion call.
type CompletionRequest struct {
	Model       string
	System      string
	Turns       []conversation.Turn
	Temperature float32
	MaxTokens   int
}

// SpeechParams is a single text-to-speech call.
type SpeechParams struct {
	Model string
	Voice string
	Input string
	Speed float64
}

// TranscriptionParams is a single speech-to-text call.
type TranscriptionParams struct {
	Model    string
	Language string
	Filename string
	Data     []byte
}

// ChatRequest carries a text conversation.
type ChatRequest struct {
	Turns []conversation.Turn `validate:"required,min=1,dive"`
}

// SpeechRequest is a synthesis request. An empty Voice or nil Speed takes
// the default.
type SpeechRequest struct {
	Text  string   `validate:"required,max=4096"`
	Voice string   `validate:"omitempty,oneof=alloy echo fable onyx nova shimmer"`
	Speed *float64 `validate:"omitempty,gte=0.25,lte=4"`
}

// VoiceChatRequest is a combined chat and speech round-trip.
type VoiceChatRequest struct {
	Turns []conversation.Turn `validate:"required,dive"`
	Voice string              `validate:"omitempty,oneof=alloy echo fable onyx nova shimmer"`
	Speed *float64            `validate:"omitempty,gte=0.25,lte=4"`
}

// VoiceReply is the text reply and its synthesized audio.
type VoiceReply struct {
	Text  string
	Audio []byte
}

// AudioClip is an uploaded recording.
type AudioClip struct {
	Name string
	Data []byte
}

// ProductSearchRequest asks for products matching free-text criteria.
// MaxPrice, when set, drops products priced above it.
type ProductSearchRequest struct {
	Criteria string `validate:"required"`
	MaxPrice *decimal.Decimal
}

// Product is one search result as returned by the model.
type Product struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price,omitempty"`
	PriceRange  string   `json:"priceRange,omitempty"`
	URL         string   `json:"url,omitempty"`
	Retailer    string   `json:"retailer,omitempty"`
	Rating      string   `json:"rating,omitempty"`
	KeyFeatures []string `json:"keyFeatures,omitempty"`
}

// ProductSearchResult is the parsed model output, or the structured fallback
// when the output is not valid JSON.
type ProductSearchResult struct {
	Products      []Product `json:"products"`
	SearchSummary string    `json:"searchSummary"`
	Error         string    `json:"error,omitempty"`
}
