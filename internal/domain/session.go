package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies the sender of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// WelcomeMessage seeds every fresh chat session.
const WelcomeMessage = "Hi! I'm your AI shopping assistant. Tell me what you need to buy and I'll keep your list up to date."

// Message is a single chat turn. Messages are immutable once appended.
type Message struct {
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChatSession is an independent conversation thread. Its message history is
// append-only; it only shrinks by deleting the whole session.
type ChatSession struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the session.
func (s *ChatSession) Clone() *ChatSession {
	c := *s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return &c
}
