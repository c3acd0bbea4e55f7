package realtime

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/domain/conversation"
	"github.com/janhq/amo-server/internal/domain/visual"
	"github.com/janhq/amo-server/internal/realtime/events"
	"github.com/janhq/amo-server/pkg/telemetry"
)

// Relay folds inbound events into the conversation, the provisional
// utterance and the visual selection.
type Relay struct {
	mu          sync.Mutex
	session     *conversation.Session
	selector    *visual.Selector
	guide       *visual.GuideTrigger
	guideDelay  time.Duration
	guideSrc    *visual.Content
	provisional strings.Builder
	shownRecs   string
	listener    Listener
	sanitizer   *telemetry.Sanitizer
	log         zerolog.Logger
}

// RelayOption customises a Relay.
type RelayOption func(*Relay)

// WithGuide publishes guide a delay after the first car seat mention.
func WithGuide(guide visual.Content, delay time.Duration) RelayOption {
	return func(r *Relay) {
		r.guideSrc = &guide
		r.guideDelay = delay
	}
}

// WithSanitizer redacts transcript text in logs.
func WithSanitizer(s *telemetry.Sanitizer) RelayOption {
	return func(r *Relay) { r.sanitizer = s }
}

func NewRelay(session *conversation.Session, selector *visual.Selector, listener Listener, log zerolog.Logger, opts ...RelayOption) *Relay {
	if listener == nil {
		listener = Callbacks{}
	}
	r := &Relay{
		session:  session,
		selector: selector,
		listener: listener,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = log.With().Str("component", "realtime-relay").Str("session_id", r.sanitizer.SessionID(session.ID())).Logger()
	if r.guideSrc != nil {
		r.guide = visual.NewGuideTrigger(*r.guideSrc, r.guideDelay, r.PublishVisual)
	}
	return r
}

// Session returns the conversation being relayed.
func (r *Relay) Session() *conversation.Session { return r.session }

// Provisional returns the partially streamed assistant utterance.
func (r *Relay) Provisional() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.provisional.String()
}

// Apply handles one event. It returns the status the event implies, if any.
func (r *Relay) Apply(ev events.ServerEvent) (Status, bool) {
	switch e := ev.(type) {
	case events.SessionCreated:
		r.log.Info().Str("provider_session", e.Session.ID).Msg("realtime session created")
		return Status{State: StateConnected}, true

	case events.Error:
		r.log.Warn().Str("type", e.Detail.Type).Str("code", e.Detail.Code).Msg("realtime provider error")
		return Status{State: StateError, Message: e.Message()}, true

	case events.InputTranscriptionCompleted:
		r.AddUserText(e.Transcript)

	case events.OutputTranscriptDelta:
		r.mu.Lock()
		r.provisional.WriteString(e.Delta)
		text := r.provisional.String()
		r.mu.Unlock()
		r.listener.OnProvisional(text)

	case events.OutputTranscriptDone:
		if msg, ok := r.session.AppendTrimmed(conversation.RoleAssistant, e.Transcript); ok {
			r.listener.OnMessage(msg)
		}
		r.ClearProvisional()

	default:
		r.log.Debug().Str("type", ev.EventType()).Msg("ignoring realtime event")
	}
	return Status{}, false
}

// AddUserText appends a user utterance and rescans the conversation for
// visual content. Blank text is ignored.
func (r *Relay) AddUserText(text string) (conversation.Message, bool) {
	msg, ok := r.session.AppendTrimmed(conversation.RoleUser, text)
	if !ok {
		return conversation.Message{}, false
	}
	r.log.Debug().Str("transcript", r.sanitizer.Preview(msg.Content, 120)).Msg("user message")
	r.listener.OnMessage(msg)

	if r.selector != nil {
		if content, changed := r.selector.Observe(r.session.Contents(conversation.RoleUser)); changed {
			r.listener.OnVisual(content)
		}
		r.publishRecommendations()
	}
	if r.guide != nil {
		r.guide.Observe(msg.Content)
	}
	return msg, true
}

// PublishVisual forces content, as the guide trigger does when it fires.
func (r *Relay) PublishVisual(content visual.Content) {
	if r.selector != nil {
		r.selector.Replace(content)
	}
	r.listener.OnVisual(content)
}

// ClearProvisional drops the partial assistant utterance.
func (r *Relay) ClearProvisional() {
	r.mu.Lock()
	had := r.provisional.Len() > 0
	r.provisional.Reset()
	r.mu.Unlock()
	if had {
		r.listener.OnProvisional("")
	}
}

// Recommendations returns the product cards of the latest voice detection.
func (r *Relay) Recommendations() []visual.Recommendation {
	if r.selector == nil {
		return nil
	}
	return r.selector.Recommendations()
}

// publishRecommendations tells a RecommendationListener about a new set of
// product cards. The same set is not repeated.
func (r *Relay) publishRecommendations() {
	rl, ok := r.listener.(RecommendationListener)
	if !ok {
		return
	}
	recs := r.selector.Recommendations()
	if len(recs) == 0 {
		return
	}
	names := make([]string, len(recs))
	for i, rec := range recs {
		names[i] = rec.ID + ":" + rec.Name
	}
	key := strings.Join(names, "|")

	r.mu.Lock()
	if key == r.shownRecs {
		r.mu.Unlock()
		return
	}
	r.shownRecs = key
	r.mu.Unlock()
	rl.OnRecommendations(recs)
}

// CancelGuide stops a pending car seat guide so nothing is published after
// the connection is torn down.
func (r *Relay) CancelGuide() {
	if r.guide != nil {
		r.guide.Cancel()
	}
}

// Reset starts the visuals over: the guide is cancelled and may fire again,
// and the selector returns to its initial content. The conversation is kept.
func (r *Relay) Reset() {
	if r.guide != nil {
		r.guide.Reset()
	}
	if r.selector != nil {
		r.selector.Reset()
		r.listener.OnVisual(r.selector.Current())
	}
	r.mu.Lock()
	r.shownRecs = ""
	r.mu.Unlock()
	r.ClearProvisional()
}

// Guide returns the car seat guide trigger, or nil when none is configured.
func (r *Relay) Guide() *visual.GuideTrigger { return r.guide }
