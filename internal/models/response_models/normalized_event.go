package response_models

// NormalizedEvent is one event extracted from scraped HTML. Fields come
// straight from the model and are not validated here.
type NormalizedEvent struct {
	Title       string   `json:"title"`
	Venue       string   `json:"venue"`
	StartTime   string   `json:"start_time"`
	PriceMin    *float64 `json:"price_min"`
	PriceMax    *float64 `json:"price_max"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
}

type NormalizeResponse struct {
	Events []NormalizedEvent `json:"events"`
}
