package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"locate918/internal/models/request_models"
)

// OpenAIModelClient implements ModelClientInterface using the OpenAI chat
// completion API. Alternative provider; Gemini is the default.
type OpenAIModelClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIModelClient(apiKey, model string, logger *zap.Logger) ModelClientInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIModelClient{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

func openAISearchEventsTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "search_events",
			Description: "Search for events in the database based on criteria like category, date, price, etc.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"q":               {Type: jsonschema.String, Description: "Keywords to search for in title or description"},
					"category":        {Type: jsonschema.String, Description: "Event category (concerts, sports, arts, food, family)"},
					"start_date":      {Type: jsonschema.String, Description: "ISO date string for start range"},
					"end_date":        {Type: jsonschema.String, Description: "ISO date string for end range"},
					"price_max":       {Type: jsonschema.Number, Description: "Maximum price in dollars"},
					"location":        {Type: jsonschema.String, Description: "Area filter (e.g., Downtown, Broken Arrow, South Tulsa)"},
					"family_friendly": {Type: jsonschema.Boolean, Description: "Filter for family friendly events"},
					"outdoor":         {Type: jsonschema.Boolean, Description: "Filter for outdoor events"},
				},
			},
		},
	}
}

func (c *OpenAIModelClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	// json_object mode requires the prompt to mention JSON; every gateway
	// prompt does.
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyModelResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIModelClient) Converse(ctx context.Context, systemInstruction string, history []request_models.ConversationTurn, message string) (*ModelReply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemInstruction,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: strings.Join(turn.Parts, "\n"),
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    []openai.Tool{openAISearchEventsTool()},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyModelResponse
	}

	choice := resp.Choices[0].Message
	if len(choice.ToolCalls) > 0 {
		call := choice.ToolCalls[0]
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			c.logger.Warn("tool call arguments fallback applied",
				zap.Error(err),
				zap.String("tool", call.Function.Name))
			args = map[string]interface{}{}
		}
		return &ModelReply{ToolCall: &ModelToolCall{Name: call.Function.Name, Args: args}}, nil
	}

	return &ModelReply{Text: choice.Content}, nil
}

func (c *OpenAIModelClient) Close() error {
	return nil
}
