// internal/handlers/catalog/list-furniture/models.go
package listfurniture

import "realestate-marketplace/internal/models"

type Input struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

type Output struct {
	Furniture []models.Furniture `json:"furniture"`
}
