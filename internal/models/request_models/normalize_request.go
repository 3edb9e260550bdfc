package request_models

type NormalizeRequest struct {
	RawHTML   string `json:"raw_html" binding:"required"`
	SourceURL string `json:"source_url"`
}
