// internal/handlers/admin/manage-users/models.go
package manageusers

import "realestate-marketplace/internal/models"

const (
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionToggleAdmin = "toggle_admin"
)

type ListOutput struct {
	Users      []models.User     `json:"users"`
	Pagination models.Pagination `json:"pagination"`
}

type ManageInput struct {
	AdminID  string                 `json:"-"`
	Action   string                 `json:"action"`
	UserID   string                 `json:"userId"`
	UserData map[string]interface{} `json:"userData"`
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
