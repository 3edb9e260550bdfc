package utils

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"locate918/internal/models/request_models"
)

// ModelToolCall is a tool invocation requested by the model instead of text.
type ModelToolCall struct {
	Name string
	Args map[string]interface{}
}

// ModelReply is one provider reply: free text or a tool invocation,
// never both.
type ModelReply struct {
	Text     string
	ToolCall *ModelToolCall
}

// ModelClientInterface abstracts the generative-model provider so the
// gateway can be tested against a deterministic fake.
type ModelClientInterface interface {
	// GenerateJSON runs a single-shot completion in JSON-constrained output
	// mode and returns the raw response text.
	GenerateJSON(ctx context.Context, prompt string) (string, error)

	// Converse runs one chat turn: systemInstruction applied once, history
	// seeded in its original order, message sent as the newest turn. The
	// search_events tool is declared on every call.
	Converse(ctx context.Context, systemInstruction string, history []request_models.ConversationTurn, message string) (*ModelReply, error)

	Close() error
}

// NewModelClient is the factory used at startup to pick a provider.
func NewModelClient(provider, apiKey, model string, logger *zap.Logger) (ModelClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIModelClient(apiKey, model, logger), nil
	case "gemini":
		return NewGeminiModelClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported model provider: %s. Use 'openai' or 'gemini'", provider)
	}
}
