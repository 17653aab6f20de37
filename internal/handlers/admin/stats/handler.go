// internal/handlers/admin/stats/handler.go
package stats

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"realestate-marketplace/internal/common/database"
	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
)

const (
	EndpointID = "admin-stats"
	Route      = "/admin/stats"
)

var ErrNilInput = errors.New("input cannot be nil")

type DashboardStore interface {
	Dashboard(ctx context.Context, since time.Time, recent int) (*models.DashboardStats, error)
}

type Input struct {
	Period models.StatsPeriod
}

type Handler struct {
	config *Config
	store  DashboardStore
	cache  redis.Cmdable
	now    func() time.Time
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

// NewHandler builds the dashboard handler. cache may be nil.
func NewHandler(config *Config, store DashboardStore, cache redis.Cmdable, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		store:  store,
		cache:  cache,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"endpoint": EndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	period := models.StatsPeriod(strings.TrimSpace(r.URL.Query().Get("period")))
	if period == "" {
		period = models.PeriodWeek
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &Input{Period: period})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*models.DashboardStats, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if !input.Period.Valid() {
		return nil, apperrors.NewInvalidRequestError("period must be one of day, week, month, year")
	}

	key := "admin:stats:" + string(input.Period)
	var cached models.DashboardStats
	if database.CacheGet(ctx, h.cache, key, &cached) {
		return &cached, nil
	}

	stats, err := h.store.Dashboard(ctx, PeriodStart(h.now(), input.Period), h.config.RecentLimit)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("dashboard stats")
		}
		return nil, apperrors.NewUpstreamReadFailureError("dashboard stats", err)
	}
	if stats.RecentActivity == nil {
		stats.RecentActivity = []models.AdminLog{}
	}

	if err := database.CacheSet(ctx, h.cache, key, stats, h.config.CacheTTL); err != nil {
		h.logger.Warn("failed to cache dashboard stats", map[string]interface{}{
			"period": input.Period,
			"error":  err.Error(),
		})
	}
	return stats, nil
}

// PeriodStart returns the instant a reporting period opens, counted back from
// now by calendar units.
func PeriodStart(now time.Time, p models.StatsPeriod) time.Time {
	switch p {
	case models.PeriodDay:
		return now.AddDate(0, 0, -1)
	case models.PeriodMonth:
		return now.AddDate(0, -1, 0)
	case models.PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*models.DashboardStats, error) {
	return h.execute(ctx, input)
}
