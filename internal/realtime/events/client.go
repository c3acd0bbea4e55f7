package events

// TurnDetection holds the VAD configuration.
type TurnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms"`
	SilenceDurationMs int     `json:"silence_duration_ms"`
}

// ServerVAD is the turn detection used for every live session.
var ServerVAD = TurnDetection{
	Type:              "server_vad",
	Threshold:         0.5,
	PrefixPaddingMs:   300,
	SilenceDurationMs: 500,
}

type SessionUpdate struct {
	Modalities        []string       `json:"modalities,omitempty"`
	Instructions      string         `json:"instructions,omitempty"`
	Voice             string         `json:"voice,omitempty"`
	InputAudioFormat  string         `json:"input_audio_format,omitempty"`
	OutputAudioFormat string         `json:"output_audio_format,omitempty"`
	TurnDetection     *TurnDetection `json:"turn_detection,omitempty"`
}

// SessionUpdateEvent is the initialization event sent once the control
// channel opens.
type SessionUpdateEvent struct {
	BaseEvent
	Session SessionUpdate `json:"session"`
}

// NewSessionUpdate builds the initialization event for a voice and prompt.
func NewSessionUpdate(voice, instructions string) SessionUpdateEvent {
	td := ServerVAD
	return SessionUpdateEvent{
		BaseEvent: NewBaseEvent(TypeSessionUpdate),
		Session: SessionUpdate{
			Modalities:        []string{"text", "audio"},
			Instructions:      instructions,
			Voice:             voice,
			InputAudioFormat:  "pcm16",
			OutputAudioFormat: "pcm16",
			TurnDetection:     &td,
		},
	}
}

type ConversationItem struct {
	Type    string                    `json:"type"`
	Role    string                    `json:"role,omitempty"`
	Content []ConversationItemContent `json:"content,omitempty"`
}

type ConversationItemContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ConversationItemCreateEvent struct {
	BaseEvent
	Item ConversationItem `json:"item"`
}

// NewUserText wraps typed text as a user message item.
func NewUserText(text string) ConversationItemCreateEvent {
	return ConversationItemCreateEvent{
		BaseEvent: NewBaseEvent(TypeConversationItemCreate),
		Item: ConversationItem{
			Type: "message",
			Role: "user",
			Content: []ConversationItemContent{
				{Type: "input_text", Text: text},
			},
		},
	}
}

type ResponseCreateEvent struct {
	BaseEvent
}

// NewResponseCreate asks the provider to answer the conversation so far.
func NewResponseCreate() ResponseCreateEvent {
	return ResponseCreateEvent{BaseEvent: NewBaseEvent(TypeResponseCreate)}
}
