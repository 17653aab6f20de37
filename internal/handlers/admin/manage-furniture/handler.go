// internal/handlers/admin/manage-furniture/handler.go
package managefurniture

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
	"realestate-marketplace/internal/store"
	"realestate-marketplace/pkg/registry"
)

const (
	ListEndpointID   = "admin-list-furniture"
	ManageEndpointID = "admin-manage-furniture"
	Route            = "/admin/furniture"
)

var ErrNilInput = errors.New("input cannot be nil")

var manageSchema = validation.MustCompileSchema(registry.MustInputSchema(ManageEndpointID))

type FurnitureAdmin interface {
	ListPage(ctx context.Context, fq store.FurnitureQuery, page, limit int) ([]models.Furniture, int, error)
	Create(ctx context.Context, data map[string]interface{}) (*models.Furniture, error)
	Update(ctx context.Context, id string, data map[string]interface{}) (*models.Furniture, error)
	Delete(ctx context.Context, id string) error
}

type FurnitureIndexer interface {
	IndexFurniture(ctx context.Context, f models.Furniture) error
	DeleteFurniture(ctx context.Context, id string) error
}

type Handler struct {
	config    *Config
	furniture FurnitureAdmin
	indexer   FurnitureIndexer
	audit     *common.Auditor
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, furniture FurnitureAdmin, indexer FurnitureIndexer, audit *common.Auditor, log logger.Logger) *Handler {
	h := &Handler{
		config:    config,
		furniture: furniture,
		indexer:   indexer,
		audit:     audit,
		logger:    log.WithFields(map[string]interface{}{"endpoint": ManageEndpointID}),
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
	minPrice, err := httpx.QueryFloat(r, "minPrice")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	maxPrice, err := httpx.QueryFloat(r, "maxPrice")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	input := &ListInput{
		Filter: store.FurnitureQuery{
			Text:     strings.TrimSpace(r.URL.Query().Get("q")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			MinPrice: minPrice,
			MaxPrice: maxPrice,
		},
		Page:  page,
		Limit: limit,
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

func (h *Handler) list(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	items, total, err := h.furniture.ListPage(ctx, input.Filter, input.Page, input.Limit)
	if err != nil {
		return nil, common.ReadError(ctx, "list furniture", err)
	}
	if items == nil {
		items = []models.Furniture{}
	}
	return &ListOutput{
		Furniture:  items,
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

	switch input.Action {
	case ActionCreate:
		f, err := h.furniture.Create(ctx, input.FurnitureData)
		if err != nil {
			return nil, common.MutationError(ctx, "Furniture", "create furniture", err)
		}
		h.mirror(ctx, *f)
		h.audit.Record(ctx, input.AdminID, "create_furniture", common.EntityFurniture, f.ID,
			map[string]interface{}{"furniture_title": f.Title})
		return common.OK(f), nil

	case ActionUpdate:
		f, err := h.furniture.Update(ctx, input.FurnitureID, input.FurnitureData)
		if err != nil {
			return nil, common.MutationError(ctx, "Furniture", "update furniture", err)
		}
		h.mirror(ctx, *f)
		h.audit.Record(ctx, input.AdminID, "update_furniture", common.EntityFurniture, f.ID,
			map[string]interface{}{"updated_fields": common.Keys(input.FurnitureData)})
		return common.OK(f), nil

	case ActionDelete:
		if err := h.furniture.Delete(ctx, input.FurnitureID); err != nil {
			return nil, common.MutationError(ctx, "Furniture", "delete furniture", err)
		}
		if h.indexer != nil {
			if err := h.indexer.DeleteFurniture(ctx, input.FurnitureID); err != nil {
				h.logger.Warn("failed to remove furniture from index", map[string]interface{}{
					"furnitureId": input.FurnitureID,
					"error":       err.Error(),
				})
			}
		}
		h.audit.Record(ctx, input.AdminID, "delete_furniture", common.EntityFurniture, input.FurnitureID, nil)
		return common.OK(&DeleteResult{Success: true, Message: "Furniture deleted successfully"}), nil
	}
	return nil, apperrors.NewInvalidRequestError("Invalid action")
}

func (h *Handler) mirror(ctx context.Context, f models.Furniture) {
	if h.indexer == nil {
		return
	}
	if err := h.indexer.IndexFurniture(ctx, f); err != nil {
		h.logger.Warn("failed to index furniture", map[string]interface{}{
			"furnitureId": f.ID,
			"error":       err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *ManageInput) (*common.Success, error) {
	return h.manage(ctx, input)
}
