// internal/handlers/admin/manage-bookings/models.go
package managebookings

import (
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
)

const (
	ActionUpdateBooking  = "update_booking"
	ActionDeleteBooking  = "delete_booking"
	ActionCreateCategory = "create_category"
	ActionUpdateCategory = "update_category"
	ActionDeleteCategory = "delete_category"
)

type ListInput struct {
	Filter store.BookingFilter
	Page   int
	Limit  int
}

type ListOutput struct {
	Bookings   []models.MaintenanceBooking `json:"bookings"`
	Pagination models.Pagination           `json:"pagination"`
}

type ManageInput struct {
	AdminID      string                 `json:"-"`
	Action       string                 `json:"action"`
	BookingID    string                 `json:"bookingId"`
	BookingData  map[string]interface{} `json:"bookingData"`
	CategoryID   string                 `json:"categoryId"`
	CategoryData map[string]interface{} `json:"categoryData"`
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
