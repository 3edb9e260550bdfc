package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"locate918/internal/models/request_models"
	"locate918/pkg/utils"
)

// ==========================
// Test Helper Functions
// ==========================

// fakeModelClient returns canned replies and records what it was asked.
type fakeModelClient struct {
	jsonReply string
	jsonErr   error
	reply     *utils.ModelReply
	replyErr  error

	lastPrompt  string
	lastSystem  string
	lastHistory []request_models.ConversationTurn
	lastMessage string
}

func (f *fakeModelClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.jsonReply, f.jsonErr
}

func (f *fakeModelClient) Converse(ctx context.Context, systemInstruction string, history []request_models.ConversationTurn, message string) (*utils.ModelReply, error) {
	f.lastSystem = systemInstruction
	f.lastHistory = history
	f.lastMessage = message
	return f.reply, f.replyErr
}

func (f *fakeModelClient) Close() error { return nil }

func newTestService(fake *fakeModelClient) AssistantServiceInterface {
	return NewAssistantService(fake, zap.NewNop())
}

// ==========================
// ParseUserIntent
// ==========================

func TestParseUserIntent(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		jsonReply string
	}{
		{
			name:      "structured reply is coerced to search params",
			message:   "jazz concerts this weekend",
			jsonReply: `{"category":"music","q":"jazz"}`,
		},
		{
			name:      "unknown keys are ignored",
			message:   "anything",
			jsonReply: `{"q":"jazz","mood":"chill"}`,
		},
		{
			name:      "json nulls leave fields absent",
			message:   "anything",
			jsonReply: `{"q":"jazz","family_friendly":null,"outdoor":null}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModelClient{jsonReply: tt.jsonReply}
			params, err := newTestService(fake).ParseUserIntent(context.Background(), tt.message)
			require.NoError(t, err)
			require.NotNil(t, params.Q)
			assert.Equal(t, "jazz", *params.Q)
			assert.Nil(t, params.FamilyFriendly)
			assert.Nil(t, params.Outdoor)
			assert.Contains(t, fake.lastPrompt, tt.message)
		})
	}
}

func TestParseUserIntent_FieldCoercion(t *testing.T) {
	fake := &fakeModelClient{jsonReply: `{"category":"music","price_max":25,"family_friendly":false}`}
	params, err := newTestService(fake).ParseUserIntent(context.Background(), "cheap shows")
	require.NoError(t, err)

	assert.Nil(t, params.Q)
	require.NotNil(t, params.Category)
	assert.Equal(t, "music", *params.Category)
	require.NotNil(t, params.PriceMax)
	assert.Equal(t, 25.0, *params.PriceMax)
	// false is a real filter value, distinct from absent.
	require.NotNil(t, params.FamilyFriendly)
	assert.False(t, *params.FamilyFriendly)
}

func TestParseUserIntent_FallbackOnInvalidJSON(t *testing.T) {
	tests := []struct {
		name      string
		jsonReply string
	}{
		{"plain text", "sorry, I can't help with that"},
		{"truncated object", `{"q":"jazz"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModelClient{jsonReply: tt.jsonReply}
			params, err := newTestService(fake).ParseUserIntent(context.Background(), "jazz concerts this weekend")
			require.NoError(t, err)

			require.NotNil(t, params.Q)
			assert.Equal(t, "jazz concerts this weekend", *params.Q)
			assert.Nil(t, params.Category)
			assert.Nil(t, params.StartDate)
			assert.Nil(t, params.EndDate)
			assert.Nil(t, params.PriceMax)
			assert.Nil(t, params.Location)
			assert.Nil(t, params.FamilyFriendly)
			assert.Nil(t, params.Outdoor)
		})
	}
}

func TestParseUserIntent_UpstreamErrorPropagates(t *testing.T) {
	fake := &fakeModelClient{jsonErr: utils.ErrUpstreamUnavailable}
	_, err := newTestService(fake).ParseUserIntent(context.Background(), "anything")
	require.ErrorIs(t, err, utils.ErrUpstreamUnavailable)
}

// ==========================
// GenerateChatResponse
// ==========================

func TestGenerateChatResponse_MutualExclusivity(t *testing.T) {
	tests := []struct {
		name  string
		reply *utils.ModelReply
	}{
		{"text reply", &utils.ModelReply{Text: "I found 3 concerts this weekend!"}},
		{"tool call reply", &utils.ModelReply{ToolCall: &utils.ModelToolCall{
			Name: "search_events",
			Args: map[string]interface{}{"category": "concerts"},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModelClient{reply: tt.reply}
			resp, err := newTestService(fake).GenerateChatResponse(context.Background(), "find me a concert", nil, nil)
			require.NoError(t, err)

			// Exactly one side populated, always.
			assert.NotEqual(t, resp.Text == nil, resp.ToolCall == nil)
		})
	}
}

func TestGenerateChatResponse_ToolCallPassthrough(t *testing.T) {
	fake := &fakeModelClient{reply: &utils.ModelReply{ToolCall: &utils.ModelToolCall{
		Name: "search_events",
		Args: map[string]interface{}{"category": "concerts", "price_max": 20.0},
	}}}
	resp, err := newTestService(fake).GenerateChatResponse(context.Background(), "find me a concert", nil, nil)
	require.NoError(t, err)

	assert.Nil(t, resp.Text)
	require.NotNil(t, resp.ToolCall)
	assert.Equal(t, "search_events", resp.ToolCall.Name)
	// Args forwarded exactly as the model produced them.
	assert.Equal(t, map[string]interface{}{"category": "concerts", "price_max": 20.0}, resp.ToolCall.Args)
}

func TestGenerateChatResponse_HistoryOrderPreserved(t *testing.T) {
	history := []request_models.ConversationTurn{
		{Role: "user", Parts: []string{"hi"}},
		{Role: "model", Parts: []string{"Hi! I'm Tully."}},
		{Role: "user", Parts: []string{"what's on tonight?"}},
		{Role: "model", Parts: []string{"A few things downtown."}},
		{Role: "user", Parts: []string{"anything outdoors?"}},
	}
	fake := &fakeModelClient{reply: &utils.ModelReply{Text: "Plenty!"}}

	_, err := newTestService(fake).GenerateChatResponse(context.Background(), "and family friendly?", history, nil)
	require.NoError(t, err)

	assert.Equal(t, history, fake.lastHistory)
	assert.Equal(t, "and family friendly?", fake.lastMessage)
}

func TestGenerateChatResponse_SystemInstruction(t *testing.T) {
	fake := &fakeModelClient{reply: &utils.ModelReply{Text: "ok"}}
	profile := map[string]interface{}{"likes": "music"}

	_, err := newTestService(fake).GenerateChatResponse(context.Background(), "hello", nil, profile)
	require.NoError(t, err)

	assert.Contains(t, fake.lastSystem, "Tully")
	assert.Contains(t, fake.lastSystem, `"likes":"music"`)
}

func TestGenerateChatResponse_NilProfileBecomesEmptyObject(t *testing.T) {
	fake := &fakeModelClient{reply: &utils.ModelReply{Text: "ok"}}

	_, err := newTestService(fake).GenerateChatResponse(context.Background(), "hello", nil, nil)
	require.NoError(t, err)

	assert.Contains(t, fake.lastSystem, "User Profile: {}")
}

// ==========================
// NormalizeEvents
// ==========================

func TestNormalizeEvents(t *testing.T) {
	tests := []struct {
		name      string
		jsonReply string
		wantCount int
	}{
		{
			name:      "well formed array",
			jsonReply: `[{"title":"Jazz Night","venue":"Cain's Ballroom","start_time":"2026-08-29T20:00:00","price_min":10,"price_max":25,"description":"Live jazz","image_url":"https://example.com/jazz.jpg"}]`,
			wantCount: 1,
		},
		{
			name:      "not json at all",
			jsonReply: "not json",
			wantCount: 0,
		},
		{
			name:      "object instead of array",
			jsonReply: `{"title":"Jazz Night"}`,
			wantCount: 0,
		},
		{
			name:      "empty array",
			jsonReply: `[]`,
			wantCount: 0,
		},
		{
			name:      "malformed element is skipped, not fatal",
			jsonReply: `[{"title":"Jazz Night"}, "just a string", {"title":"Food Trucks"}]`,
			wantCount: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModelClient{jsonReply: tt.jsonReply}
			events, err := newTestService(fake).NormalizeEvents(context.Background(), "<html></html>", "https://visittulsa.com")
			require.NoError(t, err)
			require.NotNil(t, events)
			assert.Len(t, events, tt.wantCount)
		})
	}
}

func TestNormalizeEvents_TruncatesHTML(t *testing.T) {
	rawHTML := strings.Repeat("a", maxNormalizeHTMLLen-1) + "X" + strings.Repeat("b", 5000)
	fake := &fakeModelClient{jsonReply: `[]`}

	_, err := newTestService(fake).NormalizeEvents(context.Background(), rawHTML, "https://visittulsa.com")
	require.NoError(t, err)

	marker := "HTML:\n"
	idx := strings.Index(fake.lastPrompt, marker)
	require.GreaterOrEqual(t, idx, 0)

	sent := fake.lastPrompt[idx+len(marker):]
	assert.Equal(t, rawHTML[:maxNormalizeHTMLLen], sent)
	assert.True(t, strings.HasSuffix(sent, "X"))
}

func TestNormalizeEvents_TruncationCountsCharacters(t *testing.T) {
	// A multibyte rune straddling the byte boundary must neither be split
	// nor shorten the character count sent upstream.
	rawHTML := strings.Repeat("a", maxNormalizeHTMLLen-1) + "é" + strings.Repeat("b", 5000)
	fake := &fakeModelClient{jsonReply: `[]`}

	_, err := newTestService(fake).NormalizeEvents(context.Background(), rawHTML, "https://visittulsa.com")
	require.NoError(t, err)

	marker := "HTML:\n"
	idx := strings.Index(fake.lastPrompt, marker)
	require.GreaterOrEqual(t, idx, 0)

	sent := fake.lastPrompt[idx+len(marker):]
	assert.Equal(t, string([]rune(rawHTML)[:maxNormalizeHTMLLen]), sent)
	assert.Equal(t, maxNormalizeHTMLLen, utf8.RuneCountInString(sent))
	assert.True(t, utf8.ValidString(fake.lastPrompt))
	assert.True(t, strings.HasSuffix(sent, "é"))
}

func TestNormalizeEvents_ShortHTMLNotTruncated(t *testing.T) {
	fake := &fakeModelClient{jsonReply: `[]`}

	_, err := newTestService(fake).NormalizeEvents(context.Background(), "<p>one event</p>", "https://visittulsa.com")
	require.NoError(t, err)

	assert.Contains(t, fake.lastPrompt, "<p>one event</p>")
	assert.Contains(t, fake.lastPrompt, "https://visittulsa.com")
}

func TestNormalizeEvents_UpstreamErrorPropagates(t *testing.T) {
	fake := &fakeModelClient{jsonErr: utils.ErrUpstreamUnavailable}
	_, err := newTestService(fake).NormalizeEvents(context.Background(), "<html></html>", "https://visittulsa.com")
	require.ErrorIs(t, err, utils.ErrUpstreamUnavailable)
}
