package history

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. Used when no
// database DSN is configured; sessions do not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	chats map[string]*Chat
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chats: make(map[string]*Chat)}
}

// CreateTables is a no-op for the in-memory store.
func (m *MemoryStore) CreateTables(ctx context.Context) error {
	return nil
}

// Insert stores a new chat session.
func (m *MemoryStore) Insert(ctx context.Context, chat *Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	stored := *chat
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.chats[chat.ID] = &stored
	return nil
}

// Get fetches a chat session by id.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Chat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chat, ok := m.chats[id]
	if !ok {
		return nil, ErrChatNotFound
	}
	out := *chat
	out.Data = append([]PromptRecord(nil), chat.Data...)
	out.Conversation = append([]Turn(nil), chat.Conversation...)
	return &out, nil
}

// Update replaces the data and conversation of an existing session.
func (m *MemoryStore) Update(ctx context.Context, id string, data []PromptRecord, conversation []Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	chat, ok := m.chats[id]
	if !ok {
		return ErrChatNotFound
	}
	chat.Data = append([]PromptRecord(nil), data...)
	chat.Conversation = append([]Turn(nil), conversation...)
	chat.UpdatedAt = time.Now().UTC()
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
