package models

// ProcessedQuery is the structured form of a natural-language search.
type ProcessedQuery struct {
	Text         string   `json:"text"`
	Location     string   `json:"location,omitempty"`
	PropertyType string   `json:"propertyType,omitempty"`
	Features     []string `json:"features,omitempty"`
	Language     string   `json:"language"`
}

type SearchHistory struct {
	UserID       string   `json:"user_id"`
	Query        string   `json:"query"`
	SearchType   string   `json:"search_type"`
	Language     string   `json:"language"`
	Location     string   `json:"location,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	Features     []string `json:"features,omitempty"`
}
