package response_models

// SearchParams is the structured form of a natural-language event query.
// Every field is optional; for the boolean filters an absent value means
// "no filter", which is not the same as false, hence pointers + omitempty.
type SearchParams struct {
	Q              *string  `json:"q,omitempty"`
	Category       *string  `json:"category,omitempty"`
	StartDate      *string  `json:"start_date,omitempty"`
	EndDate        *string  `json:"end_date,omitempty"`
	PriceMax       *float64 `json:"price_max,omitempty"`
	Location       *string  `json:"location,omitempty"`
	FamilyFriendly *bool    `json:"family_friendly,omitempty"`
	Outdoor        *bool    `json:"outdoor,omitempty"`
}
