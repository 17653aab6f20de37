// internal/handlers/preferences/user-preferences/handler.go
package userpreferences

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"realestate-marketplace/internal/common/database"
	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
)

const (
	GetEndpointID    = "get-preferences"
	UpdateEndpointID = "update-preferences"
	Route            = "/preferences"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type PreferenceStore interface {
	Find(ctx context.Context, userID string) (*models.UserPreference, error)
	Upsert(ctx context.Context, p models.UserPreference) (*models.UserPreference, error)
}

func cacheKey(userID string) string {
	return "user:prefs:" + userID
}

type Handler struct {
	config *Config
	store  PreferenceStore
	cache  redis.Cmdable
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

// NewHandler serves GET and PUT on the preference record. cache may be nil,
// in which case every read goes to Postgres.
func NewHandler(config *Config, store PreferenceStore, cache redis.Cmdable, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		store:  store,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"endpoint": GetEndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	out, err := h.get(ctx, httpx.UserIDFromRequest(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.DecodeValid(r, &input); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	input.UserID = httpx.UserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	out, err := h.update(ctx, &input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(ctx context.Context, userID string) (*Output, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}

	var cached models.UserPreference
	if database.CacheGet(ctx, h.cache, cacheKey(userID), &cached) {
		return &Output{Preferences: &cached}, nil
	}

	pref, err := h.store.Find(ctx, userID)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("load preferences")
		}
		return nil, apperrors.NewUpstreamReadFailureError("load preferences", err)
	}
	if pref == nil {
		return nil, apperrors.NewResourceNotFoundError("Preferences", "userId="+userID)
	}

	if err := database.CacheSet(ctx, h.cache, cacheKey(userID), pref, h.config.CacheTTL); err != nil {
		h.logger.Warn("failed to cache preferences", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
	return &Output{Preferences: pref}, nil
}

func (h *Handler) update(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.UserID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}
	if input.MinPrice != nil && input.MaxPrice != nil && *input.MinPrice > *input.MaxPrice {
		return nil, apperrors.NewInvalidRequestError("min_price must not exceed max_price")
	}

	start := time.Now()
	pref, err := h.store.Upsert(ctx, models.UserPreference{
		UserID:                 input.UserID,
		MinPrice:               input.MinPrice,
		MaxPrice:               input.MaxPrice,
		MinBeds:                input.MinBeds,
		MinBaths:               input.MinBaths,
		PreferredLocations:     input.PreferredLocations,
		PreferredPropertyTypes: input.PreferredPropertyTypes,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseWriteFailedError("upsert preferences", err)
	}

	if err := database.CacheDel(ctx, h.cache, cacheKey(input.UserID)); err != nil {
		h.logger.Warn("failed to invalidate cached preferences", map[string]interface{}{
			"userId": input.UserID,
			"error":  err.Error(),
		})
	}

	h.logger.Info("preferences updated", map[string]interface{}{
		"userId":     input.UserID,
		"locations":  len(pref.PreferredLocations),
		"types":      len(pref.PreferredPropertyTypes),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return &Output{Preferences: pref}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.update(ctx, input)
}
