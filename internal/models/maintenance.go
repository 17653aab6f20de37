package models

import "time"

type MaintenanceProvider struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Specialty string   `json:"specialty"`
	Price     string   `json:"price"`
	Rating    *float64 `json:"rating"`
	Reviews   *int     `json:"reviews"`
	Image     string   `json:"image"`
}

type MaintenanceCategory struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

type MaintenanceBooking struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	ProviderID  *string    `json:"provider_id"`
	ServiceType string     `json:"service_type"`
	BookingDate string     `json:"booking_date"`
	BookingTime string     `json:"booking_time"`
	Notes       string     `json:"notes"`
	Status      string     `json:"status"`
	UserName    string     `json:"user_name,omitempty"`
	UserEmail   string     `json:"user_email,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
