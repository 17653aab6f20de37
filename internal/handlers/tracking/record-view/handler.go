// internal/handlers/tracking/record-view/handler.go
package recordview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
)

const (
	PropertyEndpointID  = "record-property-view"
	FurnitureEndpointID = "record-furniture-view"
	PropertyRoute       = "/views/properties"
	FurnitureRoute      = "/views/furniture"
)

var (
	ErrNilInput    = errors.New("input cannot be nil")
	ErrUnknownKind = errors.New("unknown catalog kind")
)

// ViewRecorder upserts one browsing history row per user and item.
type ViewRecorder interface {
	RecordPropertyView(ctx context.Context, userID, propertyID string) error
	RecordFurnitureView(ctx context.Context, userID, furnitureID string) error
}

type Handler struct {
	config   *Config
	kind     models.CatalogKind
	recorder ViewRecorder
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, kind models.CatalogKind, recorder ViewRecorder, log logger.Logger) *Handler {
	endpoint := PropertyEndpointID
	if kind == models.KindFurniture {
		endpoint = FurnitureEndpointID
	}
	h := &Handler{
		config:   config,
		kind:     kind,
		recorder: recorder,
		logger:   log.WithFields(map[string]interface{}{"endpoint": endpoint}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	input.UserID = httpx.UserIDFromRequest(r)

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
	if input.UserID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}

	var err error
	itemID := ""
	switch h.kind {
	case models.KindProperty:
		itemID = strings.TrimSpace(input.PropertyID)
		if itemID == "" {
			return nil, apperrors.NewInvalidRequestError("Property ID is required")
		}
		err = h.recorder.RecordPropertyView(ctx, input.UserID, itemID)
	case models.KindFurniture:
		itemID = strings.TrimSpace(input.FurnitureID)
		if itemID == "" {
			return nil, apperrors.NewInvalidRequestError("Furniture ID is required")
		}
		err = h.recorder.RecordFurnitureView(ctx, input.UserID, itemID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, h.kind)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseWriteFailedError("record "+string(h.kind)+" view", err)
	}

	h.logger.Debug("view recorded", map[string]interface{}{
		"userId": input.UserID,
		"itemId": itemID,
	})
	return &Output{Success: true}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
