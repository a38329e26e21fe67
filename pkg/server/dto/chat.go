package dto

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxMessageLength caps user messages; longer input is truncated.
const MaxMessageLength = 1000

// ErrMissingMessage indicates the request body carried no message.
var ErrMissingMessage = errors.New("missing required field: message")

// Meta carries metadata about the chat session state.
type Meta struct {
	TermsViolated bool `json:"terms_violated"`
	MessageNumber int  `json:"message_number"`
	FinalMessage  bool `json:"final_message"`
}

// PromptData records one processed user message and the final prompt
// built for it.
type PromptData struct {
	Timestamp   string `json:"timestamp"`
	UserMessage string `json:"user_message"`
	FinalPrompt string `json:"final_prompt"`
}

// ChatResponse is the envelope returned by all chat endpoints.
type ChatResponse struct {
	Meta    Meta         `json:"meta"`
	Message string       `json:"message"`
	Data    []PromptData `json:"data"`
	ID      string       `json:"id"`
}

// ChatContinueRequest is a user's request to continue a chat session.
type ChatContinueRequest struct {
	Message string `json:"message"`
}

// NormalizedMessage validates and cleans the user message: trimmed,
// lowercased, double spaces collapsed, and truncated to
// MaxMessageLength.
func (r *ChatContinueRequest) NormalizedMessage() (string, error) {
	message := strings.ToLower(strings.TrimSpace(r.Message))
	if message == "" {
		return "", ErrMissingMessage
	}
	message = strings.ReplaceAll(message, "  ", " ")
	if utf8.RuneCountInString(message) > MaxMessageLength {
		message = string([]rune(message)[:MaxMessageLength])
	}
	return message, nil
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
