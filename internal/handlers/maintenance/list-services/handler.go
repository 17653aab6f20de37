// internal/handlers/maintenance/list-services/handler.go
package listservices

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
)

const (
	EndpointID = "list-maintenance-services"
	Route      = "/maintenance"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type ServiceCatalog interface {
	ListProviders(ctx context.Context, specialty string) ([]models.MaintenanceProvider, error)
	ListCategories(ctx context.Context) ([]models.MaintenanceCategory, error)
}

type Handler struct {
	config  *Config
	catalog ServiceCatalog
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, catalog ServiceCatalog, log logger.Logger) *Handler {
	h := &Handler{
		config:  config,
		catalog: catalog,
		logger:  log.WithFields(map[string]interface{}{"endpoint": EndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &Input{ServiceType: strings.TrimSpace(r.URL.Query().Get("serviceType"))})
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

	providers, err := h.catalog.ListProviders(ctx, input.ServiceType)
	if err != nil {
		return nil, h.readError(ctx, "list providers", err)
	}
	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		return nil, h.readError(ctx, "list categories", err)
	}

	out := &Output{Providers: providers, Categories: categories}
	if out.Providers == nil {
		out.Providers = []models.MaintenanceProvider{}
	}
	if out.Categories == nil {
		out.Categories = []models.MaintenanceCategory{}
	}
	return out, nil
}

func (h *Handler) readError(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(op)
	}
	return apperrors.NewUpstreamReadFailureError(op, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
