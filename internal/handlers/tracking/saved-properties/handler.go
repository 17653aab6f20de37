// internal/handlers/tracking/saved-properties/handler.go
package savedproperties

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
)

const (
	ListEndpointID   = "list-saved-properties"
	SaveEndpointID   = "save-property"
	UnsaveEndpointID = "unsave-property"
	Route            = "/saved-properties"
	ItemRoute        = "/saved-properties/{propertyID}"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type SavedStore interface {
	ListSaved(ctx context.Context, userID string) ([]models.SavedProperty, error)
	SaveProperty(ctx context.Context, userID, propertyID string) error
	UnsaveProperty(ctx context.Context, userID, propertyID string) error
}

// Handler serves the three saved-property routes; mount List, Save and
// Unsave on their own methods.
type Handler struct {
	config *Config
	saved  SavedStore
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, saved SavedStore, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		saved:  saved,
		logger: log.WithFields(map[string]interface{}{"endpoint": ListEndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	out, err := h.list(ctx, httpx.UserIDFromRequest(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	input.UserID = httpx.UserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	out, err := h.save(ctx, &input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Unsave(w http.ResponseWriter, r *http.Request) {
	input := Input{
		UserID:     httpx.UserIDFromRequest(r),
		PropertyID: chi.URLParam(r, "propertyID"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	out, err := h.unsave(ctx, &input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) list(ctx context.Context, userID string) (*ListOutput, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}
	saved, err := h.saved.ListSaved(ctx, userID)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("list saved properties")
		}
		return nil, apperrors.NewUpstreamReadFailureError("list saved properties", err)
	}
	if saved == nil {
		saved = []models.SavedProperty{}
	}
	return &ListOutput{SavedProperties: saved}, nil
}

func (h *Handler) save(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.UserID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}
	propertyID := strings.TrimSpace(input.PropertyID)
	if propertyID == "" {
		return nil, apperrors.NewInvalidRequestError("Property ID is required")
	}
	if err := h.saved.SaveProperty(ctx, input.UserID, propertyID); err != nil {
		return nil, apperrors.NewDatabaseWriteFailedError("save property", err)
	}
	h.logger.Info("property saved", map[string]interface{}{
		"userId":     input.UserID,
		"propertyId": propertyID,
	})
	return &Output{Success: true}, nil
}

func (h *Handler) unsave(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.UserID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}
	propertyID := strings.TrimSpace(input.PropertyID)
	if propertyID == "" {
		return nil, apperrors.NewInvalidRequestError("Property ID is required")
	}
	err := h.saved.UnsaveProperty(ctx, input.UserID, propertyID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewResourceNotFoundError("Saved property", "propertyId="+propertyID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseWriteFailedError("unsave property", err)
	}
	h.logger.Info("property unsaved", map[string]interface{}{
		"userId":     input.UserID,
		"propertyId": propertyID,
	})
	return &Output{Success: true}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.save(ctx, input)
}
