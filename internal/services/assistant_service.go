package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"locate918/internal/models/request_models"
	"locate918/internal/models/response_models"
	"locate918/pkg/utils"
)

// maxNormalizeHTMLLen bounds the scraped HTML embedded in the extraction
// prompt. Keeps prompts manageable; Flash has a 1M context window.
const maxNormalizeHTMLLen = 30000

type AssistantServiceInterface interface {
	// ParseUserIntent extracts structured search parameters from a natural
	// language query. If the model output cannot be decoded, the whole
	// message becomes the keyword query: callers never see a parse failure.
	ParseUserIntent(ctx context.Context, message string) (*response_models.SearchParams, error)

	// GenerateChatResponse runs one conversational turn as Tully. The reply
	// carries either text or a search_events tool call, never both.
	GenerateChatResponse(ctx context.Context, message string, history []request_models.ConversationTurn, userProfile map[string]interface{}) (*response_models.ChatResponse, error)

	// NormalizeEvents extracts structured event records from scraped HTML.
	// Undecodable model output yields an empty slice, never an error.
	NormalizeEvents(ctx context.Context, rawHTML, sourceURL string) ([]response_models.NormalizedEvent, error)
}

type AssistantService struct {
	model  utils.ModelClientInterface
	logger *zap.Logger
}

func NewAssistantService(model utils.ModelClientInterface, logger *zap.Logger) AssistantServiceInterface {
	return &AssistantService{
		model:  model,
		logger: logger,
	}
}

func (s *AssistantService) ParseUserIntent(ctx context.Context, message string) (*response_models.SearchParams, error) {
	raw, err := s.model.GenerateJSON(ctx, buildIntentPrompt(message))
	if err != nil {
		return nil, err
	}

	params, err := decodeSearchParams(raw)
	if err != nil {
		s.logger.Warn("intent parse fallback applied", zap.Error(err))
		return &response_models.SearchParams{Q: &message}, nil
	}
	return params, nil
}

func (s *AssistantService) GenerateChatResponse(ctx context.Context, message string, history []request_models.ConversationTurn, userProfile map[string]interface{}) (*response_models.ChatResponse, error) {
	if userProfile == nil {
		userProfile = map[string]interface{}{}
	}
	profileJSON, err := json.Marshal(userProfile)
	if err != nil {
		return nil, fmt.Errorf("serializing user profile: %w", err)
	}

	reply, err := s.model.Converse(ctx, buildSystemInstruction(string(profileJSON)), history, message)
	if err != nil {
		return nil, err
	}

	if reply.ToolCall != nil {
		return &response_models.ChatResponse{
			ToolCall: &response_models.ToolCall{
				Name: reply.ToolCall.Name,
				Args: reply.ToolCall.Args,
			},
		}, nil
	}

	text := reply.Text
	return &response_models.ChatResponse{Text: &text}, nil
}

func (s *AssistantService) NormalizeEvents(ctx context.Context, rawHTML, sourceURL string) ([]response_models.NormalizedEvent, error) {
	rawHTML = truncateToRunes(rawHTML, maxNormalizeHTMLLen)

	raw, err := s.model.GenerateJSON(ctx, buildNormalizePrompt(rawHTML, sourceURL))
	if err != nil {
		return nil, err
	}

	events, err := decodeNormalizedEvents(raw)
	if err != nil {
		s.logger.Warn("normalize parse fallback applied",
			zap.Error(err),
			zap.String("source_url", sourceURL))
		return []response_models.NormalizedEvent{}, nil
	}
	return events, nil
}

func buildIntentPrompt(message string) string {
	return fmt.Sprintf(`Extract search parameters from this query: %q

Output a valid JSON object with any of the following keys based on the query:
q, category, start_date, end_date, price_max, location, family_friendly, outdoor.
Use null for missing fields.
For dates, convert "this weekend" or "tomorrow" to approximate ISO dates based on current context.`, message)
}

func buildSystemInstruction(profileJSON string) string {
	return fmt.Sprintf(`You are Tully, a friendly and knowledgeable event guide for Tulsa, OK (area code 918).
User Profile: %s

If the user asks for events, use the search_events tool.
If the user asks about weather or directions, answer generally or suggest checking a map.
Be concise, enthusiastic, and helpful.`, profileJSON)
}

func buildNormalizePrompt(rawHTML, sourceURL string) string {
	return fmt.Sprintf(`Extract events from the following HTML from %s.
Return a JSON list of objects with keys: title, venue, start_time (ISO), price_min, price_max, description, image_url.

HTML:
%s`, sourceURL, rawHTML)
}

// truncateToRunes bounds s to max characters. Cutting on a byte offset
// could split a multibyte rune and hand the provider invalid UTF-8, so the
// cut lands on a rune boundary.
func truncateToRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// decodeSearchParams reports ErrUpstreamParse so tests can tell a fallback
// from a model that genuinely returned those values. Unknown keys are
// ignored, JSON nulls leave fields absent.
func decodeSearchParams(raw string) (*response_models.SearchParams, error) {
	var params response_models.SearchParams
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstreamParse, err)
	}
	return &params, nil
}

// decodeNormalizedEvents decodes element by element so one malformed entry
// does not turn a parseable array into the empty fallback.
func decodeNormalizedEvents(raw string) ([]response_models.NormalizedEvent, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstreamParse, err)
	}

	events := make([]response_models.NormalizedEvent, 0, len(elements))
	for _, el := range elements {
		var ev response_models.NormalizedEvent
		if err := json.Unmarshal(el, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}
