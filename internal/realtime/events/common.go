// Package events holds the control-channel messages exchanged with the
// realtime provider.
package events

import (
	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	TypeSessionUpdate          = "session.update"
	TypeConversationItemCreate = "conversation.item.create"
	TypeResponseCreate         = "response.create"

	TypeSessionCreated              = "session.created"
	TypeError                       = "error"
	TypeInputTranscriptionCompleted = "conversation.item.input_audio_transcription.completed"
	TypeOutputTranscriptDelta       = "response.audio_transcript.delta"
	TypeOutputTranscriptDone        = "response.audio_transcript.done"
)

// BaseEvent carries the fields common to every event.
type BaseEvent struct {
	EventID string `json:"event_id,omitempty"`
	Type    string `json:"type"`
}

// NewBaseEvent stamps a fresh event id on a client event.
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventID: nanoid.Must(),
		Type:    eventType,
	}
}

func (b BaseEvent) EventType() string { return b.Type }
