// internal/handlers/tracking/saved-properties/models.go
package savedproperties

import "realestate-marketplace/internal/models"

type Input struct {
	UserID     string `json:"-"`
	PropertyID string `json:"property_id"`
}

type ListOutput struct {
	SavedProperties []models.SavedProperty `json:"saved_properties"`
}

type Output struct {
	Success bool `json:"success"`
}
