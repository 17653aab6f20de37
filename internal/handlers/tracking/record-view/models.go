// internal/handlers/tracking/record-view/models.go
package recordview

type Input struct {
	UserID      string `json:"-"`
	PropertyID  string `json:"property_id,omitempty"`
	FurnitureID string `json:"furniture_id,omitempty"`
}

type Output struct {
	Success bool `json:"success"`
}
