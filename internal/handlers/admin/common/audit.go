// Package common holds the helpers shared by the admin back-office handlers.
package common

import (
	"context"
	"encoding/json"

	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
)

// Entity types written to admin_logs.entity_type.
const (
	EntityProperties            = "properties"
	EntityFurniture             = "furniture"
	EntityMaintenanceBookings   = "maintenance_bookings"
	EntityMaintenanceCategories = "maintenance_categories"
	EntityUsers                 = "users"
	EntitySettings              = "admin_settings"
)

type AuditStore interface {
	Log(ctx context.Context, entry models.AdminLog) error
}

// Auditor writes admin_logs rows. A failed write is logged and swallowed so
// that it never undoes a mutation that already succeeded.
type Auditor struct {
	store  AuditStore
	logger logger.Logger
}

func NewAuditor(store AuditStore, log logger.Logger) *Auditor {
	return &Auditor{store: store, logger: log}
}

func (a *Auditor) Record(ctx context.Context, adminID, action, entityType, entityID string, details interface{}) {
	if a == nil || a.store == nil {
		return
	}
	entry := models.AdminLog{
		AdminID:    adminID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err == nil {
			entry.Details = raw
		}
	}
	if err := a.store.Log(ctx, entry); err != nil {
		a.logger.Warn("failed to write admin log", map[string]interface{}{
			"action":   action,
			"entityId": entityID,
			"error":    err.Error(),
		})
	}
}
