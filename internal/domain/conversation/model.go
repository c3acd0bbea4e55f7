package conversation

import (
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two conversational roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one turn of a conversation. Messages are never mutated after
// they are appended to a Session.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// Turn is the role/content pair exchanged with the provider and the backend.
type Turn struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// Snapshot is a point-in-time copy of a Session.
type Snapshot struct {
	ID       string    `json:"sessionId"`
	Messages []Message `json:"messages"`
	Loading  bool      `json:"isLoading"`
}
