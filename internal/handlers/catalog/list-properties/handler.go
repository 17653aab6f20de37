// internal/handlers/catalog/list-properties/handler.go
package listproperties

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
)

const (
	EndpointID = "list-properties"
	Route      = "/properties"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type PropertySearcher interface {
	Search(ctx context.Context, q store.PropertyQuery) ([]models.Property, error)
}

type Handler struct {
	config     *Config
	properties PropertySearcher
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, properties PropertySearcher, log logger.Logger) *Handler {
	h := &Handler{
		config:     config,
		properties: properties,
		logger:     log.WithFields(map[string]interface{}{"endpoint": EndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	input, err := parseInput(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, output)
}

func parseInput(r *http.Request) (*Input, error) {
	minPrice, err := httpx.QueryFloat(r, "minPrice")
	if err != nil {
		return nil, err
	}
	maxPrice, err := httpx.QueryFloat(r, "maxPrice")
	if err != nil {
		return nil, err
	}
	in := &Input{
		Query:        strings.TrimSpace(r.URL.Query().Get("q")),
		PropertyType: strings.TrimSpace(r.URL.Query().Get("propertyType")),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
	}
	if r.URL.Query().Get("bedrooms") != "" {
		beds, err := httpx.QueryInt(r, "bedrooms", 0)
		if err != nil {
			return nil, err
		}
		in.Bedrooms = &beds
	}
	return in, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	start := time.Now()
	items, err := h.properties.Search(ctx, store.PropertyQuery{
		Text:         input.Query,
		PropertyType: input.PropertyType,
		MinPrice:     input.MinPrice,
		MaxPrice:     input.MaxPrice,
		MinBeds:      input.Bedrooms,
		Limit:        h.config.MaxResults,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("list properties")
		}
		return nil, apperrors.NewUpstreamReadFailureError("list properties", err)
	}
	if items == nil {
		items = []models.Property{}
	}

	h.logger.Debug("properties listed", map[string]interface{}{
		"query":       input.Query,
		"outputCount": len(items),
		"durationMs":  time.Since(start).Milliseconds(),
	})
	return &Output{Properties: items}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
