// Package requests contains HTTP request DTOs for the amo-server API.
package requests

import (
	"github.com/shopspring/decimal"

	"github.com/janhq/amo-server/internal/domain/conversation"
)

// ChatRequest is the body of POST /chat. The session ID is opaque: it must
// be present but may be empty.
type ChatRequest struct {
	Messages  []conversation.Turn `json:"messages" binding:"required"`
	SessionID *string             `json:"sessionId" binding:"required"`
}

// RealtimeSessionRequest is the optional body of POST /voice/realtime-session.
type RealtimeSessionRequest struct {
	Model        string `json:"model,omitempty"`
	Voice        string `json:"voice,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// VoiceChatRequest is the body of POST /voice/chat-voice.
type VoiceChatRequest struct {
	Messages []conversation.Turn `json:"messages" binding:"required"`
	Voice    string              `json:"voice,omitempty"`
	Speed    *float64            `json:"speed,omitempty"`
}

// SynthesizeRequest is the body of POST /voice/synthesize.
type SynthesizeRequest struct {
	Text  string   `json:"text"`
	Voice string   `json:"voice,omitempty"`
	Speed *float64 `json:"speed,omitempty"`
}

// ProductSearchRequest is the body of POST /product-search. MaxPrice accepts
// a JSON number or string.
type ProductSearchRequest struct {
	Criteria string           `json:"criteria"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
}

// SearchImagesRequest is the body of POST /search-images.
type SearchImagesRequest struct {
	Query       string `json:"query"`
	ProductType string `json:"productType,omitempty"`
}

// DetectVisualRequest is the body of POST /visuals/detect. Mode is canvas
// or voice; empty means canvas.
type DetectVisualRequest struct {
	Messages []string `json:"messages" binding:"required"`
	Mode     string   `json:"mode,omitempty"`
}
