// internal/handlers/maintenance/book-service/handler.go
package bookservice

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
	"realestate-marketplace/internal/notify"
)

const (
	EndpointID = "book-maintenance"
	Route      = "/maintenance/bookings"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type BookingCreator interface {
	CreateBooking(ctx context.Context, b models.MaintenanceBooking) (*models.MaintenanceBooking, error)
}

type UserLookup interface {
	Get(ctx context.Context, userID string) (*models.User, error)
}

type Notifier interface {
	BookingCreated(ctx context.Context, b models.MaintenanceBooking, user *models.User) notify.Result
}

type Handler struct {
	config   *Config
	bookings BookingCreator
	users    UserLookup
	notifier Notifier
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

// NewHandler wires the booking endpoint. notifier may be nil.
func NewHandler(config *Config, bookings BookingCreator, users UserLookup, notifier Notifier, log logger.Logger) *Handler {
	h := &Handler{
		config:   config,
		bookings: bookings,
		users:    users,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"endpoint": EndpointID}),
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

func validate(input *Input) error {
	input.ServiceType = strings.TrimSpace(input.ServiceType)
	input.Date = strings.TrimSpace(input.Date)
	input.Time = strings.TrimSpace(input.Time)
	if input.ServiceType == "" || input.Date == "" || input.Time == "" {
		return apperrors.NewInvalidRequestError("Missing required fields")
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return apperrors.NewInvalidRequestError("date must be formatted YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", input.Time); err != nil {
		if _, err := time.Parse("15:04:05", input.Time); err != nil {
			return apperrors.NewInvalidRequestError("time must be formatted HH:MM")
		}
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.UserID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}
	if err := validate(input); err != nil {
		return nil, err
	}

	start := time.Now()
	booking := models.MaintenanceBooking{
		UserID:      input.UserID,
		ServiceType: input.ServiceType,
		BookingDate: input.Date,
		BookingTime: input.Time,
		Notes:       input.Notes,
		Status:      models.BookingStatusPending,
	}
	if id := strings.TrimSpace(input.ProviderID); id != "" {
		booking.ProviderID = &id
	}

	created, err := h.bookings.CreateBooking(ctx, booking)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("create booking")
		}
		return nil, apperrors.NewDatabaseWriteFailedError("create booking", err)
	}

	out := &Output{Booking: created, Success: true}
	if h.notifier != nil {
		res := h.notifier.BookingCreated(ctx, *created, h.lookupUser(ctx, input.UserID))
		out.Notifications = &res
	}

	h.logger.Info("maintenance booked", map[string]interface{}{
		"bookingId":   created.ID,
		"userId":      input.UserID,
		"serviceType": created.ServiceType,
		"durationMs":  time.Since(start).Milliseconds(),
	})
	return out, nil
}

// lookupUser returns nil when the user cannot be loaded; the notifier then
// skips the email.
func (h *Handler) lookupUser(ctx context.Context, userID string) *models.User {
	if h.users == nil {
		return nil
	}
	user, err := h.users.Get(ctx, userID)
	if err != nil {
		h.logger.Warn("booking user lookup failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return nil
	}
	return user
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
