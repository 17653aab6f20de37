// internal/handlers/catalog/list-furniture/handler.go
package listfurniture

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
)

const (
	EndpointID = "list-furniture"
	Route      = "/furniture"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type FurnitureSearcher interface {
	Search(ctx context.Context, q store.FurnitureQuery) ([]models.Furniture, error)
}

type Handler struct {
	config    *Config
	furniture FurnitureSearcher
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, furniture FurnitureSearcher, log logger.Logger) *Handler {
	h := &Handler{
		config:    config,
		furniture: furniture,
		logger:    log.WithFields(map[string]interface{}{"endpoint": EndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
	input := Input{
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	items, err := h.furniture.Search(ctx, store.FurnitureQuery{
		Text:     input.Query,
		Category: input.Category,
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Limit:    h.config.MaxResults,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("list furniture")
		}
		return nil, apperrors.NewUpstreamReadFailureError("list furniture", err)
	}
	if items == nil {
		items = []models.Furniture{}
	}
	return &Output{Furniture: items}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
