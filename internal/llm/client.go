// Package llm provides the chat-completion client the conversation and
// scoring services talk to. The interface is deliberately tiny: callers
// build a request, the client returns the model's text or an error.
package llm

import (
	"context"
	"errors"
)

// Role values for Message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNotConfigured is returned when no upstream credentials are set.
// Callers treat it like any other transport failure: the upstream is
// unavailable, not broken.
var ErrNotConfigured = errors.New("llm: client not configured")

// Message is one turn of conversation supplied as model context.
type Message struct {
	Role    string
	Content string
}

// Request describes a single completion call.
type Request struct {
	System      string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Client generates a completion for a request.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
