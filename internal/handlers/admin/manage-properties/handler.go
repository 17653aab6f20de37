// internal/handlers/admin/manage-properties/handler.go
package manageproperties

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
	ListEndpointID   = "admin-list-properties"
	ManageEndpointID = "admin-manage-properties"
	Route            = "/admin/properties"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

var manageSchema = validation.MustCompileSchema(registry.MustInputSchema(ManageEndpointID))

type PropertyAdmin interface {
	ListPage(ctx context.Context, pf store.PropertyQuery, page, limit int) ([]models.Property, int, error)
	Create(ctx context.Context, data map[string]interface{}) (*models.Property, error)
	Update(ctx context.Context, id string, data map[string]interface{}) (*models.Property, error)
	Delete(ctx context.Context, id string) error
}

// PropertyIndexer is satisfied by *search.Indexer.
type PropertyIndexer interface {
	IndexProperty(ctx context.Context, p models.Property) error
	DeleteProperty(ctx context.Context, id string) error
}

type Handler struct {
	config     *Config
	properties PropertyAdmin
	indexer    PropertyIndexer
	audit      *common.Auditor
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, properties PropertyAdmin, indexer PropertyIndexer, audit *common.Auditor, log logger.Logger) *Handler {
	h := &Handler{
		config:     config,
		properties: properties,
		indexer:    indexer,
		audit:      audit,
		logger:     log.WithFields(map[string]interface{}{"endpoint": ManageEndpointID}),
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
	minPrice, err := httpx.QueryFloat(r, "minPrice")
	if err != nil {
		return nil, err
	}
	maxPrice, err := httpx.QueryFloat(r, "maxPrice")
	if err != nil {
		return nil, err
	}
	return &ListInput{
		Filter: store.PropertyQuery{
			Text:         strings.TrimSpace(r.URL.Query().Get("q")),
			PropertyType: strings.TrimSpace(r.URL.Query().Get("propertyType")),
			MinPrice:     minPrice,
			MaxPrice:     maxPrice,
		},
		Page:  page,
		Limit: limit,
	}, nil
}

func (h *Handler) list(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	items, total, err := h.properties.ListPage(ctx, input.Filter, input.Page, input.Limit)
	if err != nil {
		return nil, common.ReadError(ctx, "list properties", err)
	}
	if items == nil {
		items = []models.Property{}
	}
	return &ListOutput{
		Properties: items,
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

	start := time.Now()
	var (
		result interface{}
		err    error
	)
	switch input.Action {
	case ActionCreate:
		result, err = h.create(ctx, input)
	case ActionUpdate:
		result, err = h.update(ctx, input)
	case ActionDelete:
		result, err = h.remove(ctx, input)
	default:
		return nil, apperrors.NewInvalidRequestError("Invalid action")
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("property managed", map[string]interface{}{
		"adminId":    input.AdminID,
		"action":     input.Action,
		"propertyId": input.PropertyID,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return common.OK(result), nil
}

func (h *Handler) create(ctx context.Context, input *ManageInput) (*models.Property, error) {
	p, err := h.properties.Create(ctx, input.PropertyData)
	if err != nil {
		return nil, common.MutationError(ctx, "Property", "create property", err)
	}
	h.mirror(ctx, *p)
	h.audit.Record(ctx, input.AdminID, "create_property", common.EntityProperties, p.ID,
		map[string]interface{}{"property_title": p.Title})
	return p, nil
}

func (h *Handler) update(ctx context.Context, input *ManageInput) (*models.Property, error) {
	p, err := h.properties.Update(ctx, input.PropertyID, input.PropertyData)
	if err != nil {
		return nil, common.MutationError(ctx, "Property", "update property", err)
	}
	h.mirror(ctx, *p)
	h.audit.Record(ctx, input.AdminID, "update_property", common.EntityProperties, p.ID,
		map[string]interface{}{"updated_fields": common.Keys(input.PropertyData)})
	return p, nil
}

func (h *Handler) remove(ctx context.Context, input *ManageInput) (*DeleteResult, error) {
	if err := h.properties.Delete(ctx, input.PropertyID); err != nil {
		return nil, common.MutationError(ctx, "Property", "delete property", err)
	}
	if h.indexer != nil {
		if err := h.indexer.DeleteProperty(ctx, input.PropertyID); err != nil {
			h.logger.Warn("failed to remove property from index", map[string]interface{}{
				"propertyId": input.PropertyID,
				"error":      err.Error(),
			})
		}
	}
	h.audit.Record(ctx, input.AdminID, "delete_property", common.EntityProperties, input.PropertyID, nil)
	return &DeleteResult{Success: true, Message: "Property deleted successfully"}, nil
}

// mirror keeps the search index in step with Postgres on a best-effort basis.
func (h *Handler) mirror(ctx context.Context, p models.Property) {
	if h.indexer == nil {
		return
	}
	if err := h.indexer.IndexProperty(ctx, p); err != nil {
		h.logger.Warn("failed to index property", map[string]interface{}{
			"propertyId": p.ID,
			"error":      err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *ManageInput) (*common.Success, error) {
	return h.manage(ctx, input)
}
