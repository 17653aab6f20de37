// internal/handlers/recommendation/recommend-properties/models.go
package recommendproperties

import "realestate-marketplace/internal/models"

type Input struct {
	UserID string `json:"user_id" validate:"required"`
	Limit  int    `json:"limit"` // <= 0 selects the default
}

type Output struct {
	Recommendations []models.Property `json:"recommendations"`
}
