package response_models

// ToolCall is a structured invocation the model asked the caller to run.
// Args are forwarded exactly as the model produced them; the consuming
// backend validates them when it executes the search.
type ToolCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// ChatResponse carries exactly one of Text or ToolCall. Both keys are always
// serialized so the consuming backend can see which side is null.
type ChatResponse struct {
	Text     *string   `json:"text"`
	ToolCall *ToolCall `json:"tool_call"`
}
