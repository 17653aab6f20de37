// internal/handlers/admin/manage-users/handler.go
package manageusers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/validation"
	"realestate-marketplace/internal/handlers/admin/common"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/pkg/registry"
)

const (
	ListEndpointID   = "admin-list-users"
	ManageEndpointID = "admin-manage-users"
	Route            = "/admin/users"
)

var ErrNilInput = errors.New("input cannot be nil")

var manageSchema = validation.MustCompileSchema(registry.MustInputSchema(ManageEndpointID))

type UserAdmin interface {
	ListPage(ctx context.Context, text string, page, limit int) ([]models.User, int, error)
	Update(ctx context.Context, userID string, data map[string]interface{}) (*models.User, error)
	Delete(ctx context.Context, userID string) error
	ToggleAdmin(ctx context.Context, userID string) (*models.User, error)
}

// RoleCache is satisfied by *store.AdminCache.
type RoleCache interface {
	Invalidate(ctx context.Context, userID string) error
}

type Handler struct {
	config *Config
	users  UserAdmin
	roles  RoleCache
	audit  *common.Auditor
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, users UserAdmin, roles RoleCache, audit *common.Auditor, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		users:  users,
		roles:  roles,
		audit:  audit,
		logger: log.WithFields(map[string]interface{}{"endpoint": ManageEndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := common.Paging(r, h.config.PageSize)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	users, total, err := h.users.ListPage(ctx, strings.TrimSpace(r.URL.Query().Get("q")), page, limit)
	if err != nil {
		h.errors.Handle(w, r, common.ReadError(ctx, "list users", err))
		return
	}
	if users == nil {
		users = []models.User{}
	}
	httpx.WriteJSON(w, http.StatusOK, &ListOutput{
		Users:      users,
		Pagination: models.NewPagination(total, page, limit),
	})
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

	switch input.Action {
	case ActionUpdate:
		u, err := h.users.Update(ctx, input.UserID, input.UserData)
		if err != nil {
			return nil, common.MutationError(ctx, "User", "update user", err)
		}
		h.audit.Record(ctx, input.AdminID, "update_user", common.EntityUsers, u.ID,
			map[string]interface{}{"updated_fields": common.Keys(input.UserData)})
		return common.OK(u), nil

	case ActionDelete:
		if input.UserID == input.AdminID {
			return nil, apperrors.NewInvalidRequestError("Admins cannot delete their own account")
		}
		if err := h.users.Delete(ctx, input.UserID); err != nil {
			return nil, common.MutationError(ctx, "User", "delete user", err)
		}
		h.invalidate(ctx, input.UserID)
		h.audit.Record(ctx, input.AdminID, "delete_user", common.EntityUsers, input.UserID, nil)
		return common.OK(&DeleteResult{Success: true, Message: "User deleted successfully"}), nil

	case ActionToggleAdmin:
		if input.UserID == input.AdminID {
			return nil, apperrors.NewInvalidRequestError("Admins cannot change their own role")
		}
		u, err := h.users.ToggleAdmin(ctx, input.UserID)
		if err != nil {
			return nil, common.MutationError(ctx, "User", "toggle admin", err)
		}
		h.invalidate(ctx, u.ID)
		action := "revoke_admin"
		if u.IsAdmin {
			action = "grant_admin"
		}
		h.audit.Record(ctx, input.AdminID, action, common.EntityUsers, u.ID,
			map[string]interface{}{"is_admin": u.IsAdmin})
		return common.OK(u), nil
	}
	return nil, apperrors.NewInvalidRequestError("Invalid action")
}

// invalidate drops the cached role so the next request re-reads Postgres.
func (h *Handler) invalidate(ctx context.Context, userID string) {
	if h.roles == nil {
		return
	}
	if err := h.roles.Invalidate(ctx, userID); err != nil {
		h.logger.Warn("failed to invalidate admin role cache", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *ManageInput) (*common.Success, error) {
	return h.manage(ctx, input)
}
