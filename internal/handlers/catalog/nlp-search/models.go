// internal/handlers/catalog/nlp-search/models.go
package nlpsearch

import "realestate-marketplace/internal/models"

const (
	SearchTypeProperties = "properties"
	SearchTypeFurniture  = "furniture"
)

type Input struct {
	Query      string `json:"query" validate:"required,max=500"`
	Language   string `json:"language"`
	SearchType string `json:"searchType" validate:"omitempty,oneof=properties furniture"`
	UserID     string `json:"userId"`
}

// Output.Results holds []models.Property or []models.Furniture depending on
// SearchType.
type Output struct {
	Results        interface{}           `json:"results"`
	ProcessedQuery models.ProcessedQuery `json:"processedQuery"`
	SearchType     string                `json:"searchType"`
}
