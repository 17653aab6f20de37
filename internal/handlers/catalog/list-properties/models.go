// internal/handlers/catalog/list-properties/models.go
package listproperties

import "realestate-marketplace/internal/models"

type Input struct {
	Query        string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
}

type Output struct {
	Properties []models.Property `json:"properties"`
}
