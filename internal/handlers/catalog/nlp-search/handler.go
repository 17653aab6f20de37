// internal/handlers/catalog/nlp-search/handler.go
package nlpsearch

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
	"realestate-marketplace/internal/search"
)

const (
	EndpointID = "nlp-search"
	Route      = "/search"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type Searcher interface {
	SearchProperties(ctx context.Context, q models.ProcessedQuery) ([]models.Property, search.Source, error)
	SearchFurniture(ctx context.Context, q models.ProcessedQuery) ([]models.Furniture, search.Source, error)
}

type HistoryRecorder interface {
	Record(ctx context.Context, h models.SearchHistory) error
}

type Handler struct {
	config   *Config
	searcher Searcher
	history  HistoryRecorder
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, searcher Searcher, history HistoryRecorder, log logger.Logger) *Handler {
	h := &Handler{
		config:   config,
		searcher: searcher,
		history:  history,
		logger:   log.WithFields(map[string]interface{}{"endpoint": EndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.DecodeValid(r, &input); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if input.UserID == "" {
		input.UserID = httpx.UserIDFromRequest(r)
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
	if strings.TrimSpace(input.Query) == "" {
		return nil, apperrors.NewInvalidRequestError("query is required")
	}
	searchType := input.SearchType
	if searchType == "" {
		searchType = SearchTypeProperties
	}

	start := time.Now()
	processed := search.Parse(input.Query, input.Language)
	if input.UserID != "" {
		h.recordHistory(ctx, input, searchType, processed)
	}

	var (
		results interface{}
		count   int
		source  search.Source
		err     error
	)
	switch searchType {
	case SearchTypeProperties:
		var items []models.Property
		items, source, err = h.searcher.SearchProperties(ctx, processed)
		if items == nil {
			items = []models.Property{}
		}
		results, count = items, len(items)
	case SearchTypeFurniture:
		var items []models.Furniture
		items, source, err = h.searcher.SearchFurniture(ctx, processed)
		if items == nil {
			items = []models.Furniture{}
		}
		results, count = items, len(items)
	default:
		return nil, apperrors.NewInvalidRequestError("searchType must be one of [properties furniture]")
	}
	if err != nil {
		return nil, err
	}

	duration := time.Since(start).Milliseconds()
	h.logger.Info("search completed", map[string]interface{}{
		"searchType":  searchType,
		"language":    processed.Language,
		"source":      string(source),
		"outputCount": count,
		"durationMs":  duration,
	})
	if duration > 500 {
		h.logger.Warn("search exceeded 500ms", map[string]interface{}{
			"durationMs": duration,
		})
	}

	return &Output{
		Results:        results,
		ProcessedQuery: processed,
		SearchType:     searchType,
	}, nil
}

// recordHistory never fails the search.
func (h *Handler) recordHistory(ctx context.Context, input *Input, searchType string, q models.ProcessedQuery) {
	if h.history == nil {
		return
	}
	err := h.history.Record(ctx, models.SearchHistory{
		UserID:       input.UserID,
		Query:        input.Query,
		SearchType:   searchType,
		Language:     q.Language,
		Location:     q.Location,
		PropertyType: q.PropertyType,
		Features:     q.Features,
	})
	if err != nil {
		h.logger.Warn("failed to store search history", map[string]interface{}{
			"userId": input.UserID,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
