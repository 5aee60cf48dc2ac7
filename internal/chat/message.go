// Package chat runs the conversation: it persists transcripts, obtains
// supportive replies from the language model, and drives the risk
// assessment pipeline after every user turn.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/mindcarehq/mindcare/internal/pagination"
)

// Message roles. The transcript only ever holds these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one persisted transcript entry.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Turn-level errors surfaced to the HTTP layer. Anything else coming out
// of HandleTurn is a persistence failure.
var (
	ErrEmptyMessage     = errors.New("message must not be empty")
	ErrReplyUnavailable = errors.New("reply service unavailable")
	ErrPersistence      = errors.New("persistence failure")
)

// Store persists transcript messages.
//
// Recent returns the latest n messages for a user in chronological
// order, for use as model context. History returns up to limit+1
// messages newest-first, starting after the cursor, for paginated
// transcript reads.
type Store interface {
	Append(ctx context.Context, m *Message) error
	Recent(ctx context.Context, userID string, n int) ([]*Message, error)
	History(ctx context.Context, userID string, limit int, before *pagination.Cursor) ([]*Message, error)
}
