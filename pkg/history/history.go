// Package history persists chat sessions: the visible conversation
// plus a record of every lookup prompt that produced an answer.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrChatNotFound indicates no chat session exists for the given id.
var ErrChatNotFound = errors.New("chat does not exist")

// Turn is one visible message of a conversation.
type Turn struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// PromptRecord captures one processed user message and the final
// prompt that was sent to the model for it.
type PromptRecord struct {
	Timestamp   string `json:"timestamp"`
	UserMessage string `json:"user_message"`
	FinalPrompt string `json:"final_prompt"`
}

// Chat is one stored session.
type Chat struct {
	ID           string         `json:"id"`
	Data         []PromptRecord `json:"data"`
	Conversation []Turn         `json:"conversation"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Store persists chat sessions.
type Store interface {
	// CreateTables prepares the backing storage.
	CreateTables(ctx context.Context) error

	// Insert stores a new chat session.
	Insert(ctx context.Context, chat *Chat) error

	// Get fetches a chat session by id, or ErrChatNotFound.
	Get(ctx context.Context, id string) (*Chat, error)

	// Update replaces the data and conversation of an existing session.
	Update(ctx context.Context, id string, data []PromptRecord, conversation []Turn) error

	// Close releases storage resources.
	Close() error
}
