package models

import "time"

// ViewRecord is one row of browsing_history or furniture_browsing_history.
type ViewRecord struct {
	UserID   string    `json:"user_id"`
	ItemID   string    `json:"item_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

type SavedProperty struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PropertyID string    `json:"property_id"`
	SavedAt    time.Time `json:"saved_at"`
	Property   *Property `json:"property,omitempty"`
}
