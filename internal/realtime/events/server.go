package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by Decode when the payload is not a JSON object
// with a string type.
var ErrMalformed = errors.New("malformed realtime event")

// ServerEvent is one of the inbound variants below.
type ServerEvent interface {
	EventType() string
	serverEvent()
}

type SessionCreated struct {
	BaseEvent
	Session struct {
		ID    string `json:"id"`
		Model string `json:"model"`
		Voice string `json:"voice"`
	} `json:"session"`
}

// ErrorDetail holds the details of a provider error.
type ErrorDetail struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

type Error struct {
	BaseEvent
	Detail ErrorDetail `json:"error"`
}

// Message returns the provider message, falling back to the code.
func (e Error) Message() string {
	if e.Detail.Message != "" {
		return e.Detail.Message
	}
	if e.Detail.Code != "" {
		return e.Detail.Code
	}
	return "Realtime provider error"
}

type InputTranscriptionCompleted struct {
	BaseEvent
	ItemID       string `json:"item_id"`
	ContentIndex int    `json:"content_index"`
	Transcript   string `json:"transcript"`
}

type OutputTranscriptDelta struct {
	BaseEvent
	ResponseID string `json:"response_id"`
	ItemID     string `json:"item_id"`
	Delta      string `json:"delta"`
}

type OutputTranscriptDone struct {
	BaseEvent
	ResponseID string `json:"response_id"`
	ItemID     string `json:"item_id"`
	Transcript string `json:"transcript"`
}

// Unknown is any event type the relay does not act on.
type Unknown struct {
	BaseEvent
	Raw json.RawMessage `json:"-"`
}

func (SessionCreated) serverEvent()              {}
func (Error) serverEvent()                       {}
func (InputTranscriptionCompleted) serverEvent() {}
func (OutputTranscriptDelta) serverEvent()       {}
func (OutputTranscriptDone) serverEvent()        {}
func (Unknown) serverEvent()                     {}

// Decode parses one inbound control-channel message.
func Decode(data []byte) (ServerEvent, error) {
	var base BaseEvent
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if base.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	switch base.Type {
	case TypeSessionCreated:
		return decodeAs[SessionCreated](data)
	case TypeError:
		return decodeAs[Error](data)
	case TypeInputTranscriptionCompleted:
		return decodeAs[InputTranscriptionCompleted](data)
	case TypeOutputTranscriptDelta:
		return decodeAs[OutputTranscriptDelta](data)
	case TypeOutputTranscriptDone:
		return decodeAs[OutputTranscriptDone](data)
	default:
		return Unknown{BaseEvent: base, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}

func decodeAs[T ServerEvent](data []byte) (ServerEvent, error) {
	var ev T
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return ev, nil
}
