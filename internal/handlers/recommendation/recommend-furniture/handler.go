// internal/handlers/recommendation/recommend-furniture/handler.go
package recommendfurniture

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/metrics"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/ranking"
)

const (
	EndpointID = "recommend-furniture"
	Route      = "/recommendations/furniture"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type Handler struct {
	config      *Config
	recommender *ranking.Recommender[models.Furniture]
	errors      *apperrors.ErrorHandler
	logger      logger.Logger
}

// NewHandler wires the furniture recommender. properties resolves the
// optional property_id to the room categories that suit it.
func NewHandler(config *Config, catalog ranking.Catalog[models.Furniture], signals ranking.Signals, properties ranking.Catalog[models.Property], log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"endpoint": EndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	h.recommender = ranking.NewRecommender(catalog, signals, ranking.PropertyContext{Properties: properties}, ranking.Options{
		DefaultLimit: config.DefaultLimit,
		HistoryDepth: config.HistoryDepth,
		Observer: func(stage string, added int) {
			metrics.RecommendationStageCandidates.WithLabelValues(string(models.KindFurniture), stage).Add(float64(added))
		},
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.DecodeValid(r, &input); err != nil {
		h.errors.Handle(w, r, err)
		return
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

	start := time.Now()
	propertyID := strings.TrimSpace(input.PropertyID)
	mode := "profile"
	if propertyID != "" {
		mode = "context"
	}

	items, err := h.recommender.Recommend(ctx, ranking.Request{
		UserID:    input.UserID,
		Limit:     input.Limit,
		ContextID: propertyID,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("recommend furniture")
		}
		return nil, err
	}
	if items == nil {
		items = []models.Furniture{}
	}
	metrics.RecommendationsServed.WithLabelValues(string(models.KindFurniture), mode).Inc()

	duration := time.Since(start).Milliseconds()
	h.logger.Info("recommendations served", map[string]interface{}{
		"userId":      input.UserID,
		"propertyId":  propertyID,
		"mode":        mode,
		"outputCount": len(items),
		"durationMs":  duration,
	})
	if duration > 500 {
		h.logger.Warn("recommendation exceeded 500ms", map[string]interface{}{
			"durationMs": duration,
		})
	}

	return &Output{Recommendations: items}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
