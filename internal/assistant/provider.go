package assistant

import (
	"context"

	"github.com/listkeeper/listkeeper/internal/domain"
)

// ItemSnapshot is the view of one list item sent to the assistant.
type ItemSnapshot struct {
	ID       int64
	Text     string
	Done     bool
	Quantity *int
}

// Turn is one prior message of the conversation, for context.
type Turn struct {
	Role domain.MessageRole
	Text string
}

// Request carries the user's text and the current active list contents.
type Request struct {
	UserText string
	ListName string
	Items    []ItemSnapshot
	History  []Turn
}

// Response contains the assistant's free-text reply and, when the reply
// carried one, the structured intent to apply to the active list.
type Response struct {
	Reply     string
	Intent    *domain.Intent
	Model     string
	LatencyMs int64
}

// Provider defines the interface for assistant backends
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Interpret sends the user text plus list snapshot and returns the reply
	// and optional structured intent
	Interpret(ctx context.Context, req Request) (*Response, error)
}
