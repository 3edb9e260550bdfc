package utils

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"locate918/internal/models/request_models"
)

// GeminiModelClient implements ModelClientInterface using Google's Gemini
// models.
type GeminiModelClient struct {
	client *genai.Client
	model  string
}

// NewGeminiModelClient creates a new Gemini client.
func NewGeminiModelClient(apiKey, model string) (ModelClientInterface, error) {
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiModelClient{client: client, model: model}, nil
}

// searchEventsTool declares the one function the chat model may call. The
// parameter set mirrors SearchParams; everything is optional.
func searchEventsTool() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        "search_events",
			Description: "Search for events in the database based on criteria like category, date, price, etc.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"q":               {Type: genai.TypeString, Description: "Keywords to search for in title or description"},
					"category":        {Type: genai.TypeString, Description: "Event category (concerts, sports, arts, food, family)"},
					"start_date":      {Type: genai.TypeString, Description: "ISO date string for start range"},
					"end_date":        {Type: genai.TypeString, Description: "ISO date string for end range"},
					"price_max":       {Type: genai.TypeNumber, Description: "Maximum price in dollars"},
					"location":        {Type: genai.TypeString, Description: "Area filter (e.g., Downtown, Broken Arrow, South Tulsa)"},
					"family_friendly": {Type: genai.TypeBoolean, Description: "Filter for family friendly events"},
					"outdoor":         {Type: genai.TypeBoolean, Description: "Filter for outdoor events"},
				},
			},
		}},
	}
}

func (c *GeminiModelClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	// Force JSON-only output so the gateway never has to strip markdown fences.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.1)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyModelResponse
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

func (c *GeminiModelClient) Converse(ctx context.Context, systemInstruction string, history []request_models.ConversationTurn, message string) (*ModelReply, error) {
	m := c.client.GenerativeModel(c.model)
	m.Tools = []*genai.Tool{searchEventsTool()}
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}

	session := m.StartChat()
	session.History = make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		parts := make([]genai.Part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			parts = append(parts, genai.Text(p))
		}
		session.History = append(session.History, &genai.Content{Role: turn.Role, Parts: parts})
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyModelResponse
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if fc, ok := part.(genai.FunctionCall); ok {
			return &ModelReply{ToolCall: &ModelToolCall{Name: fc.Name, Args: fc.Args}}, nil
		}
	}

	return &ModelReply{Text: fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])}, nil
}

// Close closes the Gemini client.
func (c *GeminiModelClient) Close() error {
	return c.client.Close()
}
