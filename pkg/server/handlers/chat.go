package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soundprediction/wikibio"
	"github.com/soundprediction/wikibio/pkg/history"
	"github.com/soundprediction/wikibio/pkg/nlp"
	"github.com/soundprediction/wikibio/pkg/server/dto"
	"github.com/soundprediction/wikibio/pkg/types"
)

const (
	greetingMessage = "Hello! How can I assist you today?"

	clarifyMessage = "I couldn't find an answer to that. Could you rephrase your question, naming who or what you are asking about, and for which year?"

	apologyMessage = "I'm sorry, but I'm currently unable to process your request. Please try again later."
)

// LookupService answers a structured fact question.
type LookupService interface {
	Lookup(ctx context.Context, req wikibio.LookupRequest) (*wikibio.LookupResult, error)
}

// ChatHandler handles chat session requests
type ChatHandler struct {
	lookup LookupService
	model  nlp.Client
	store  history.Store
	logger *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(lookup LookupService, model nlp.Client, store history.Store, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		lookup: lookup,
		model:  model,
		store:  store,
		logger: logger,
	}
}

// NewChat handles GET /chat/new - creates a session and greets.
func (h *ChatHandler) NewChat(c *gin.Context) {
	ctx := c.Request.Context()
	chatID := uuid.New().String()

	data := []history.PromptRecord{{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UserMessage: "Let's start",
	}}
	conversation := []history.Turn{
		{Role: "user", Message: "Let's start"},
		{Role: "assistant", Message: greetingMessage},
	}

	if err := h.store.Insert(ctx, &history.Chat{
		ID:           chatID,
		Data:         data,
		Conversation: conversation,
	}); err != nil {
		h.logger.ErrorContext(ctx, "failed to store new chat", "chat_id", chatID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: apologyMessage})
		return
	}

	h.logger.InfoContext(ctx, "chat session created", "chat_id", chatID)
	c.JSON(http.StatusOK, chatResponse(chatID, greetingMessage, data, conversation))
}

// ContinueChat handles POST /chat/:chat_id - answers one user message.
func (h *ChatHandler) ContinueChat(c *gin.Context) {
	chatID := c.Param("chat_id")
	ctx := context.WithValue(c.Request.Context(), types.ContextKeyChatID, chatID)

	var req dto.ChatContinueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "Missing required field: message"})
		return
	}
	message, err := req.NormalizedMessage()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "Missing required field: message"})
		return
	}

	chat, err := h.store.Get(ctx, chatID)
	if errors.Is(err, history.ErrChatNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "Chat does not exist. No chat with the given ID is known."})
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load chat", "chat_id", chatID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: apologyMessage})
		return
	}

	conversation := append(chat.Conversation, history.Turn{Role: "user", Message: message})

	answer, finalPrompt := h.answer(ctx, message)

	conversation = append(conversation, history.Turn{Role: "assistant", Message: answer})
	data := append(chat.Data, history.PromptRecord{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UserMessage: message,
		FinalPrompt: finalPrompt,
	})

	if err := h.store.Update(ctx, chatID, data, conversation); err != nil {
		// The user still gets their answer; only the log is lost.
		h.logger.ErrorContext(ctx, "failed to store chat turn", "chat_id", chatID, "error", err)
	}

	c.JSON(http.StatusOK, chatResponse(chatID, answer, data, conversation))
}

// answer runs one user message through the full pipeline: language
// detection, question decomposition, knowledge graph lookup, and prose
// answer generation. Soft misses come back as a clarifying question,
// hard failures as a generic apology. The returned prompt is the fact
// sheet the answer was generated from, for the session log.
func (h *ChatHandler) answer(ctx context.Context, message string) (reply, finalPrompt string) {
	language, err := nlp.DetectLanguage(ctx, h.model, message)
	if err != nil {
		h.logger.WarnContext(ctx, "language detection failed, assuming english", "error", err)
		language = "en"
	}

	extraction, err := nlp.ExtractQuery(ctx, h.model, message)
	if err != nil {
		if errors.Is(err, &nlp.MalformedOutputError{}) {
			h.logger.InfoContext(ctx, "question could not be decomposed", "error", err)
			return clarifyMessage, ""
		}
		h.logger.ErrorContext(ctx, "question decomposition failed", "error", err)
		return apologyMessage, ""
	}

	result, err := h.lookup.Lookup(ctx, wikibio.LookupRequest{
		EntityText:   extraction.Entity,
		PropertyText: extraction.Property,
		Year:         extraction.Year,
		Language:     language,
	})
	if err != nil {
		var validationErr *types.ValidationError
		if errors.Is(err, wikibio.ErrNotFound) || errors.As(err, &validationErr) {
			h.logger.InfoContext(ctx, "lookup found no answer",
				"entity", extraction.Entity, "property", extraction.Property)
			return clarifyMessage, ""
		}
		h.logger.ErrorContext(ctx, "lookup failed", "error", err)
		return apologyMessage, ""
	}

	answer, err := nlp.GenerateAnswer(ctx, h.model, message, result.Bio.RAGText, language)
	if err != nil {
		h.logger.ErrorContext(ctx, "answer generation failed", "error", err)
		return apologyMessage, result.Bio.RAGText
	}

	h.logger.InfoContext(ctx, "question answered",
		"entity", extraction.Entity, "property", extraction.Property,
		"subject", result.Bio.QID.String())
	return answer, result.Bio.RAGText
}

// chatResponse builds the response envelope shared by both endpoints.
func chatResponse(chatID, message string, data []history.PromptRecord, conversation []history.Turn) dto.ChatResponse {
	promptData := make([]dto.PromptData, len(data))
	for i, record := range data {
		promptData[i] = dto.PromptData{
			Timestamp:   record.Timestamp,
			UserMessage: record.UserMessage,
			FinalPrompt: record.FinalPrompt,
		}
	}
	return dto.ChatResponse{
		Meta: dto.Meta{
			TermsViolated: false,
			MessageNumber: len(conversation) - 1,
			FinalMessage:  false,
		},
		Message: message,
		Data:    promptData,
		ID:      chatID,
	}
}
