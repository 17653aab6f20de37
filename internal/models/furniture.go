package models

import "time"

// Furniture is a catalog row from the furniture table. Furniture has no
// location; its type is the category.
type Furniture struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Price        string     `json:"price"`
	PriceNumeric *float64   `json:"price_numeric"`
	Rating       *float64   `json:"rating"`
	Reviews      *int       `json:"reviews"`
	Image        string     `json:"image"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (f Furniture) ItemID() string { return f.ID }
func (f Furniture) ItemLocation() string { return "" }
func (f Furniture) ItemType() string { return f.Category }
