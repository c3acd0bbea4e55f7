package handlers

import (
	"github.com/google/wire"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Chat   *ChatHandler
	Voice  *VoiceHandler
	Search *SearchHandler
	Visual *VisualHandler
}

// NewProvider creates a new handler provider.
func NewProvider(chat *ChatHandler, voice *VoiceHandler, search *SearchHandler, visual *VisualHandler) *Provider {
	return &Provider{
		Chat:   chat,
		Voice:  voice,
		Search: search,
		Visual: visual,
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewChatHandler,
	NewVoiceHandler,
	NewSearchHandler,
	NewVisualHandler,
	NewProvider,
)
