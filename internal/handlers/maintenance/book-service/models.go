// internal/handlers/maintenance/book-service/models.go
package bookservice

import (
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/notify"
)

type Input struct {
	UserID      string `json:"-"`
	ServiceType string `json:"serviceType"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
	ProviderID  string `json:"providerId"`
}

type Output struct {
	Booking       *models.MaintenanceBooking `json:"booking"`
	Success       bool                       `json:"success"`
	Notifications *notify.Result             `json:"notifications,omitempty"`
}
