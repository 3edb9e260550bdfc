package request_models

// ConversationTurn is one prior turn of a chat session, in the same shape
// the model provider consumes: a role ("user" or "model") and its text parts.
type ConversationTurn struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

type ChatRequest struct {
	Message             string                 `json:"message" binding:"required"`
	UserID              string                 `json:"user_id"`
	ConversationHistory []ConversationTurn     `json:"conversation_history"`
	UserProfile         map[string]interface{} `json:"user_profile"`
}
