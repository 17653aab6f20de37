package models

import (
	"encoding/json"
	"time"
)

type AdminLog struct {
	ID         string          `json:"id"`
	AdminID    string          `json:"admin_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
}

type AdminSetting struct {
	ID           string          `json:"id"`
	SettingKey   string          `json:"setting_key"`
	SettingValue json.RawMessage `json:"setting_value"`
	UpdatedBy    string          `json:"updated_by,omitempty"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count for total rows.
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type StatsTotals struct {
	Users       int `json:"users"`
	Properties  int `json:"properties"`
	Furniture   int `json:"furniture"`
	Maintenance int `json:"maintenance"`
}

type PeriodStats struct {
	NewUsers      int `json:"newUsers"`
	NewProperties int `json:"newProperties"`
	NewBookings   int `json:"newBookings"`
	ActiveUsers   int `json:"activeUsers"`
}

type DashboardStats struct {
	Totals         StatsTotals `json:"totals"`
	Period         PeriodStats `json:"period"`
	RecentActivity []AdminLog  `json:"recentActivity"`
}
