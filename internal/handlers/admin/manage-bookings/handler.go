// internal/handlers/admin/manage-bookings/handler.go
package managebookings

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/validation"
	"realestate-marketplace/internal/handlers/admin/common"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
	"realestate-marketplace/pkg/registry"
)

const (
	ListEndpointID   = "admin-list-bookings"
	ManageEndpointID = "admin-manage-bookings"
	Route            = "/admin/bookings"
)

var ErrNilInput = errors.New("input cannot be nil")

var manageSchema = validation.MustCompileSchema(registry.MustInputSchema(ManageEndpointID))

var bookingStatuses = map[string]bool{
	models.BookingStatusPending:   true,
	models.BookingStatusConfirmed: true,
	models.BookingStatusCompleted: true,
	models.BookingStatusCancelled: true,
}

const statusMessage = "status must be one of pending, confirmed, completed, cancelled"

type MaintenanceAdmin interface {
	ListBookings(ctx context.Context, f store.BookingFilter, page, limit int) ([]models.MaintenanceBooking, int, error)
	UpdateBooking(ctx context.Context, id string, data map[string]interface{}) (*models.MaintenanceBooking, error)
	DeleteBooking(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, data map[string]interface{}) (*models.MaintenanceCategory, error)
	UpdateCategory(ctx context.Context, id string, data map[string]interface{}) (*models.MaintenanceCategory, error)
	DeleteCategory(ctx context.Context, id string) error
}

type Handler struct {
	config      *Config
	maintenance MaintenanceAdmin
	audit       *common.Auditor
	errors      *apperrors.ErrorHandler
	logger      logger.Logger
}

func NewHandler(config *Config, maintenance MaintenanceAdmin, audit *common.Auditor, log logger.Logger) *Handler {
	h := &Handler{
		config:      config,
		maintenance: maintenance,
		audit:       audit,
		logger:      log.WithFields(map[string]interface{}{"endpoint": ManageEndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseList(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.list(ctx, input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) parseList(r *http.Request) (*ListInput, error) {
	page, limit, err := common.Paging(r, h.config.PageSize)
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	f := store.BookingFilter{
		ServiceType: strings.TrimSpace(q.Get("serviceType")),
		Status:      strings.TrimSpace(q.Get("status")),
		StartDate:   strings.TrimSpace(q.Get("startDate")),
		EndDate:     strings.TrimSpace(q.Get("endDate")),
	}
	if f.Status != "" && !bookingStatuses[f.Status] {
		return nil, apperrors.NewInvalidRequestError(statusMessage)
	}
	for name, v := range map[string]string{"startDate": f.StartDate, "endDate": f.EndDate} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return nil, apperrors.NewInvalidRequestError(name + " must be formatted YYYY-MM-DD")
		}
	}
	return &ListInput{Filter: f, Page: page, Limit: limit}, nil
}

func (h *Handler) list(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	items, total, err := h.maintenance.ListBookings(ctx, input.Filter, input.Page, input.Limit)
	if err != nil {
		return nil, common.ReadError(ctx, "list bookings", err)
	}
	if items == nil {
		items = []models.MaintenanceBooking{}
	}
	return &ListOutput{
		Bookings:   items,
		Pagination: models.NewPagination(total, input.Page, input.Limit),
	}, nil
}

func (h *Handler) Manage(w http.ResponseWriter, r *http.Request) {
	var input ManageInput
	if err := httpx.DecodeSchema(r, manageSchema, &input); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	input.AdminID = httpx.UserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.manage(ctx, &input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) manage(ctx context.Context, input *ManageInput) (*common.Success, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.AdminID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}

	var (
		result interface{}
		err    error
	)
	switch input.Action {
	case ActionUpdateBooking:
		result, err = h.updateBooking(ctx, input)
	case ActionDeleteBooking:
		result, err = h.deleteBooking(ctx, input)
	case ActionCreateCategory:
		result, err = h.createCategory(ctx, input)
	case ActionUpdateCategory:
		result, err = h.updateCategory(ctx, input)
	case ActionDeleteCategory:
		result, err = h.deleteCategory(ctx, input)
	default:
		return nil, apperrors.NewInvalidRequestError("Invalid action")
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("maintenance managed", map[string]interface{}{
		"adminId":    input.AdminID,
		"action":     input.Action,
		"bookingId":  input.BookingID,
		"categoryId": input.CategoryID,
	})
	return common.OK(result), nil
}

func (h *Handler) updateBooking(ctx context.Context, input *ManageInput) (*models.MaintenanceBooking, error) {
	if s, ok := input.BookingData["status"]; ok {
		status, _ := s.(string)
		if !bookingStatuses[status] {
			return nil, apperrors.NewInvalidRequestError(statusMessage)
		}
	}
	b, err := h.maintenance.UpdateBooking(ctx, input.BookingID, input.BookingData)
	if err != nil {
		return nil, common.MutationError(ctx, "Booking", "update booking", err)
	}
	h.audit.Record(ctx, input.AdminID, "update_maintenance_booking", common.EntityMaintenanceBookings, b.ID,
		map[string]interface{}{"updated_fields": common.Keys(input.BookingData)})
	return b, nil
}

func (h *Handler) deleteBooking(ctx context.Context, input *ManageInput) (*DeleteResult, error) {
	if err := h.maintenance.DeleteBooking(ctx, input.BookingID); err != nil {
		return nil, common.MutationError(ctx, "Booking", "delete booking", err)
	}
	h.audit.Record(ctx, input.AdminID, "delete_maintenance_booking", common.EntityMaintenanceBookings, input.BookingID, nil)
	return &DeleteResult{Success: true, Message: "Booking deleted successfully"}, nil
}

func (h *Handler) createCategory(ctx context.Context, input *ManageInput) (*models.MaintenanceCategory, error) {
	c, err := h.maintenance.CreateCategory(ctx, input.CategoryData)
	if err != nil {
		return nil, common.MutationError(ctx, "Category", "create category", err)
	}
	h.audit.Record(ctx, input.AdminID, "create_maintenance_category", common.EntityMaintenanceCategories, c.ID,
		map[string]interface{}{"category_title": c.Title})
	return c, nil
}

func (h *Handler) updateCategory(ctx context.Context, input *ManageInput) (*models.MaintenanceCategory, error) {
	c, err := h.maintenance.UpdateCategory(ctx, input.CategoryID, input.CategoryData)
	if err != nil {
		return nil, common.MutationError(ctx, "Category", "update category", err)
	}
	h.audit.Record(ctx, input.AdminID, "update_maintenance_category", common.EntityMaintenanceCategories, c.ID,
		map[string]interface{}{"updated_fields": common.Keys(input.CategoryData)})
	return c, nil
}

func (h *Handler) deleteCategory(ctx context.Context, input *ManageInput) (*DeleteResult, error) {
	if err := h.maintenance.DeleteCategory(ctx, input.CategoryID); err != nil {
		return nil, common.MutationError(ctx, "Category", "delete category", err)
	}
	h.audit.Record(ctx, input.AdminID, "delete_maintenance_category", common.EntityMaintenanceCategories, input.CategoryID, nil)
	return &DeleteResult{Success: true, Message: "Category deleted successfully"}, nil
}

func (h *Handler) Execute(ctx context.Context, input *ManageInput) (*common.Success, error) {
	return h.manage(ctx, input)
}
