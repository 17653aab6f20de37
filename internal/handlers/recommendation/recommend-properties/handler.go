// internal/handlers/recommendation/recommend-properties/handler.go
package recommendproperties

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/metrics"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/ranking"
)

const (
	EndpointID = "recommend-properties"
	Route      = "/recommendations/properties"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type Handler struct {
	config      *Config
	recommender *ranking.Recommender[models.Property]
	errors      *apperrors.ErrorHandler
	logger      logger.Logger
}

func NewHandler(config *Config, catalog ranking.Catalog[models.Property], signals ranking.Signals, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"endpoint": EndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	h.recommender = ranking.NewRecommender(catalog, signals, nil, ranking.Options{
		DefaultLimit: config.DefaultLimit,
		HistoryDepth: config.HistoryDepth,
		Overfetch:    config.Overfetch,
		Observer:     observeStage,
	})
	return h
}

func observeStage(stage string, added int) {
	metrics.RecommendationStageCandidates.WithLabelValues(string(models.KindProperty), stage).Add(float64(added))
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

	items, err := h.recommender.Recommend(ctx, ranking.Request{
		UserID: input.UserID,
		Limit:  input.Limit,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("recommend properties")
		}
		return nil, err
	}
	if items == nil {
		items = []models.Property{}
	}
	metrics.RecommendationsServed.WithLabelValues(string(models.KindProperty), "profile").Inc()

	duration := time.Since(start).Milliseconds()
	h.logger.Info("recommendations served", map[string]interface{}{
		"userId":      input.UserID,
		"limit":       input.Limit,
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
