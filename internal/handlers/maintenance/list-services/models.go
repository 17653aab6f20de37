// internal/handlers/maintenance/list-services/models.go
package listservices

import "realestate-marketplace/internal/models"

type Input struct {
	ServiceType string
}

type Output struct {
	Providers  []models.MaintenanceProvider `json:"providers"`
	Categories []models.MaintenanceCategory `json:"categories"`
}
