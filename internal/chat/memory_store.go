package chat

import (
	"context"
	"sync"

	"github.com/mindcarehq/mindcare/internal/pagination"
)

// MemoryStore is an in-memory transcript store for demo/development mode.
type MemoryStore struct {
	byUser map[string][]*Message // append order == chronological order
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory transcript store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUser: make(map[string][]*Message)}
}

func (m *MemoryStore) Append(ctx context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *msg
	m.byUser[msg.UserID] = append(m.byUser[msg.UserID], &cp)
	return nil
}

func (m *MemoryStore) Recent(ctx context.Context, userID string, n int) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.byUser[userID]
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]*Message, len(msgs))
	for i, msg := range msgs {
		cp := *msg
		out[i] = &cp
	}
	return out, nil
}

func (m *MemoryStore) History(ctx context.Context, userID string, limit int, before *pagination.Cursor) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.byUser[userID]
	out := make([]*Message, 0, limit+1)
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if before != nil {
			if msg.CreatedAt.After(before.CreatedAt) {
				continue
			}
			if msg.CreatedAt.Equal(before.CreatedAt) && msg.ID >= before.ID {
				continue
			}
		}
		cp := *msg
		out = append(out, &cp)
		if len(out) == limit+1 {
			break
		}
	}
	return out, nil
}
