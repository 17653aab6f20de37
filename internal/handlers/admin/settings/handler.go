// internal/handlers/admin/settings/handler.go
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/validation"
	"realestate-marketplace/internal/handlers/admin/common"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/pkg/registry"
)

const (
	ListEndpointID   = "admin-list-settings"
	UpdateEndpointID = "admin-update-settings"
	Route            = "/admin/settings"
)

var ErrNilInput = errors.New("input cannot be nil")

var updateSchema = validation.MustCompileSchema(registry.MustInputSchema(UpdateEndpointID))

type SettingsStore interface {
	ListSettings(ctx context.Context) ([]models.AdminSetting, error)
	UpsertSettings(ctx context.Context, settings map[string]json.RawMessage, updatedBy string) error
}

type Handler struct {
	config *Config
	store  SettingsStore
	audit  *common.Auditor
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, store SettingsStore, audit *common.Auditor, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		store:  store,
		audit:  audit,
		logger: log.WithFields(map[string]interface{}{"endpoint": UpdateEndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

// List answers with every setting keyed by setting_key.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	rows, err := h.store.ListSettings(ctx)
	if err != nil {
		h.errors.Handle(w, r, common.ReadError(ctx, "list settings", err))
		return
	}
	out := &ListOutput{Settings: make(map[string]json.RawMessage, len(rows))}
	for _, s := range rows {
		out.Settings[s.SettingKey] = s.SettingValue
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input UpdateInput
	if err := httpx.DecodeSchema(r, updateSchema, &input); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	input.AdminID = httpx.UserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.update(ctx, &input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.AdminID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}
	if len(input.Settings) == 0 {
		return nil, apperrors.NewInvalidRequestError("Settings object is required")
	}

	if err := h.store.UpsertSettings(ctx, input.Settings, input.AdminID); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("update settings")
		}
		return nil, apperrors.NewDatabaseWriteFailedError("update settings", err)
	}

	keys := make([]string, 0, len(input.Settings))
	for k := range input.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h.audit.Record(ctx, input.AdminID, "update_settings", common.EntitySettings, "",
		map[string]interface{}{"updated_keys": keys})

	return &UpdateOutput{Success: true, Message: "Settings updated successfully"}, nil
}

func (h *Handler) Execute(ctx context.Context, input *UpdateInput) (*UpdateOutput, error) {
	return h.update(ctx, input)
}
