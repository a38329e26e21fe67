package types

// contextKey is a private type for context values to avoid collisions.
type contextKey string

const (
	// ContextKeyChatID carries the chat session identifier through a
	// request so telemetry can attribute records to a conversation.
	ContextKeyChatID contextKey = "chat_id"
	// ContextKeyRequestSource identifies where a request originated
	// (http, cli).
	ContextKeyRequestSource contextKey = "request_source"
)
