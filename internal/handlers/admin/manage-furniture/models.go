// internal/handlers/admin/manage-furniture/models.go
package managefurniture

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
	Filter store.FurnitureQuery
	Page   int
	Limit  int
}

type ListOutput struct {
	Furniture  []models.Furniture `json:"furniture"`
	Pagination models.Pagination  `json:"pagination"`
}

type ManageInput struct {
	AdminID       string                 `json:"-"`
	Action        string                 `json:"action"`
	FurnitureID   string                 `json:"furnitureId"`
	FurnitureData map[string]interface{} `json:"furnitureData"`
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
