// Package responses contains HTTP response DTOs for the amo-server API.
package responses

import (
	"github.com/janhq/amo-server/internal/domain/visual"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ChatResponse is the reply to POST /chat.
type ChatResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// VoiceChatResponse carries the reply text and its MP3 audio, base64 encoded.
type VoiceChatResponse struct {
	Text      string `json:"text"`
	Audio     string `json:"audio"`
	AudioSize int    `json:"audioSize"`
}

// TranscribeResponse is the reply to POST /voice/transcribe.
type TranscribeResponse struct {
	Text string `json:"text"`
}

// SearchImagesResponse is the reply to POST /search-images.
type SearchImagesResponse struct {
	Images      []visual.Image `json:"images"`
	SearchQuery string         `json:"searchQuery,omitempty"`
}
