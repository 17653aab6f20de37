// internal/handlers/preferences/user-preferences/models.go
package userpreferences

import "realestate-marketplace/internal/models"

type Input struct {
	UserID                 string   `json:"-"`
	MinPrice               *float64 `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice               *float64 `json:"max_price" validate:"omitempty,gte=0"`
	MinBeds                *int     `json:"min_beds" validate:"omitempty,gte=0"`
	MinBaths               *int     `json:"min_baths" validate:"omitempty,gte=0"`
	PreferredLocations     []string `json:"preferred_locations" validate:"omitempty,dive,required"`
	PreferredPropertyTypes []string `json:"preferred_property_types" validate:"omitempty,dive,required"`
}

type Output struct {
	Preferences *models.UserPreference `json:"preferences"`
}
