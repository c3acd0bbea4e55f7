package realtime

import (
	"github.com/janhq/amo-server/internal/domain/conversation"
	"github.com/janhq/amo-server/internal/domain/visual"
)

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
)

// Status is the transport state plus the message when in StateError.
type Status struct {
	State   State
	Message string
}

// Listener receives everything the transport reports. Methods may be
// called from different goroutines.
type Listener interface {
	OnStatus(status Status)
	OnMessage(msg conversation.Message)
	OnProvisional(text string)
	OnVisual(content visual.Content)
}

// RecommendationListener is implemented by listeners that also show the
// product cards of voice detections.
type RecommendationListener interface {
	OnRecommendations(recs []visual.Recommendation)
}

// Callbacks adapts optional functions to a Listener.
type Callbacks struct {
	Status          func(Status)
	Message         func(conversation.Message)
	Provisional     func(string)
	Visual          func(visual.Content)
	Recommendations func([]visual.Recommendation)
}

var _ RecommendationListener = Callbacks{}

func (c Callbacks) OnStatus(s Status) {
	if c.Status != nil {
		c.Status(s)
	}
}

func (c Callbacks) OnMessage(m conversation.Message) {
	if c.Message != nil {
		c.Message(m)
	}
}

func (c Callbacks) OnProvisional(text string) {
	if c.Provisional != nil {
		c.Provisional(text)
	}
}

func (c Callbacks) OnVisual(content visual.Content) {
	if c.Visual != nil {
		c.Visual(content)
	}
}

func (c Callbacks) OnRecommendations(recs []visual.Recommendation) {
	if c.Recommendations != nil {
		c.Recommendations(recs)
	}
}
