package models

import "time"

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Name      string     `json:"name"`
	IsAdmin   bool       `json:"is_admin"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// UserPreference holds the optional bounds a user set for property matching.
// Nil pointers and empty slices mean "no constraint".
type UserPreference struct {
	UserID                 string     `json:"user_id"`
	MinPrice               *float64   `json:"min_price"`
	MaxPrice               *float64   `json:"max_price"`
	MinBeds                *int       `json:"min_beds"`
	MinBaths               *int       `json:"min_baths"`
	PreferredLocations     []string   `json:"preferred_locations"`
	PreferredPropertyTypes []string   `json:"preferred_property_types"`
	UpdatedAt              *time.Time `json:"updated_at,omitempty"`
}
