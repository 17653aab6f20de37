// internal/handlers/admin/manage-properties/models.go
package manageproperties

import (
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type ListInput struct {
	Filter store.PropertyQuery
	Page   int
	Limit  int
}

type ListOutput struct {
	Properties []models.Property `json:"properties"`
	Pagination models.Pagination `json:"pagination"`
}

type ManageInput struct {
	AdminID      string                 `json:"-"`
	Action       string                 `json:"action"`
	PropertyID   string                 `json:"propertyId"`
	PropertyData map[string]interface{} `json:"propertyData"`
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
