// internal/handlers/recommendation/recommend-furniture/models.go
package recommendfurniture

import "realestate-marketplace/internal/models"

type Input struct {
	UserID     string `json:"user_id" validate:"required"`
	PropertyID string `json:"property_id,omitempty"`
	Limit      int    `json:"limit"`
}

type Output struct {
	Recommendations []models.Furniture `json:"recommendations"`
}
