package models

import "time"

// Property is a listing row from the properties table.
type Property struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Price        string     `json:"price"`
	PriceNumeric *float64   `json:"price_numeric"`
	Location     string     `json:"location"`
	PropertyType string     `json:"property_type"`
	Beds         int        `json:"beds"`
	Baths        int        `json:"baths"`
	Area         string     `json:"area"`
	Image        string     `json:"image"`
	Features     []string   `json:"features"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (p Property) ItemID() string { return p.ID }
func (p Property) ItemLocation() string { return p.Location }
func (p Property) ItemType() string { return p.PropertyType }
