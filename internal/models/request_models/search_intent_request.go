package request_models

type SearchIntentRequest struct {
	Query string `json:"query" binding:"required"`
}
