package conversation

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is an in-memory, append-only conversation owned by one client.
type Session struct {
	mu       sync.RWMutex
	id       string
	messages []Message
	loading  bool
	now      func() time.Time
}

// NewSession starts a conversation with a fresh random id.
func NewSession() *Session {
	return NewSessionWithID(uuid.NewString())
}

// NewSessionWithID starts a conversation with the given id.
func NewSessionWithID(id string) *Session {
	return &Session{
		id:  id,
		now: time.Now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Append adds a message with the given role and content and returns it.
// Content is stored as given.
func (s *Session) Append(role Role, content string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	return msg
}

// AppendTrimmed appends the trimmed content if it is non-empty. The second
// return value reports whether a message was appended.
func (s *Session) AppendTrimmed(role Role, content string) (Message, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Message{}, false
	}
	return s.Append(role, trimmed), true
}

// Messages returns a copy of the message sequence in insertion order.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Turns returns the conversation in the role/content shape the relays accept.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.messages))
	for i, m := range s.messages {
		out[i] = Turn{Role: m.Role, Content: m.Content}
	}
	return out
}

// Contents returns the text of every message, or only of the given role when
// roles is non-empty.
func (s *Session) Contents(roles ...Role) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		if len(roles) > 0 && !hasRole(roles, m.Role) {
			continue
		}
		out = append(out, m.Content)
	}
	return out
}

// SetLoading marks whether a request is outstanding for this session.
func (s *Session) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.messages))
	copy(msgs, s.messages)
	return Snapshot{ID: s.id, Messages: msgs, Loading: s.loading}
}

func hasRole(roles []Role, r Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}
