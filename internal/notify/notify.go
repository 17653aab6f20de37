// Package notify sends best-effort booking notifications over SES and SNS.
package notify

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/metrics"
	"realestate-marketplace/internal/models"
)

const EventBookingCreated = "maintenance.booking.created"

type Status string

const (
	StatusSent     Status = "sent"
	StatusFailed   Status = "failed"
	StatusDisabled Status = "disabled"
)

// Emailer is satisfied by *aws.SESClient.
type Emailer interface {
	SendText(ctx context.Context, from, to, subject, body string) (string, error)
}

// Publisher is satisfied by *aws.SNSClient.
type Publisher interface {
	PublishEvent(ctx context.Context, topicARN, eventType, subject, message string) (string, error)
}

type Config struct {
	EmailEnabled bool
	FromEmail    string
	TopicEnabled bool
	TopicARN     string
}

// Result reports what happened on each channel.
type Result struct {
	Email Status `json:"email"`
	Topic Status `json:"topic"`
}

type BookingNotifier struct {
	cfg       Config
	emailer   Emailer
	publisher Publisher
	logger    logger.Logger
}

// NewBookingNotifier builds a notifier. A nil emailer or publisher disables
// that channel.
func NewBookingNotifier(cfg Config, emailer Emailer, publisher Publisher, log logger.Logger) *BookingNotifier {
	return &BookingNotifier{
		cfg:       cfg,
		emailer:   emailer,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"component": "booking-notifier"}),
	}
}

var bookingTemplate = struct {
	subject string
	body    string
}{
	subject: "Your {{serviceType}} booking is received",
	body: "Hello {{name}},\n\nWe received your {{serviceType}} booking for {{date}} at {{time}}. " +
		"Reference: {{bookingId}}. Status: {{status}}.\n\nWe will confirm your appointment shortly.",
}

// BookingCreated tells the user and the operations topic about a new
// booking. Failures are logged and reported in the result, never returned.
func (n *BookingNotifier) BookingCreated(ctx context.Context, b models.MaintenanceBooking, user *models.User) Result {
	data := map[string]string{
		"bookingId":   b.ID,
		"serviceType": b.ServiceType,
		"date":        b.BookingDate,
		"time":        b.BookingTime,
		"status":      b.Status,
		"name":        "",
	}
	var email string
	if user != nil {
		email = user.Email
		data["name"] = firstNonEmpty(user.FullName, user.Name, user.Email)
	}

	subject := renderTemplate(bookingTemplate.subject, data)
	res := Result{
		Email: n.sendEmail(ctx, email, subject, renderTemplate(bookingTemplate.body, data)),
		Topic: n.publish(ctx, subject, b),
	}

	n.logger.Info("booking notifications processed", map[string]interface{}{
		"bookingId": b.ID,
		"email":     res.Email,
		"topic":     res.Topic,
	})
	return res
}

func (n *BookingNotifier) sendEmail(ctx context.Context, to, subject, body string) Status {
	if !n.cfg.EmailEnabled || n.emailer == nil || to == "" {
		return record("email", StatusDisabled)
	}
	if _, err := n.emailer.SendText(ctx, n.cfg.FromEmail, to, subject, body); err != nil {
		n.logger.Warn("booking email failed", map[string]interface{}{
			"error": apperrors.NewNotificationSendFailedError("email", err).Error(),
		})
		return record("email", StatusFailed)
	}
	return record("email", StatusSent)
}

func (n *BookingNotifier) publish(ctx context.Context, subject string, b models.MaintenanceBooking) Status {
	if !n.cfg.TopicEnabled || n.publisher == nil || n.cfg.TopicARN == "" {
		return record("sns", StatusDisabled)
	}
	msg, err := json.Marshal(b)
	if err != nil {
		n.logger.Warn("marshal booking event failed", map[string]interface{}{"error": err.Error()})
		return record("sns", StatusFailed)
	}
	if _, err := n.publisher.PublishEvent(ctx, n.cfg.TopicARN, EventBookingCreated, subject, string(msg)); err != nil {
		n.logger.Warn("booking event publish failed", map[string]interface{}{
			"error": apperrors.NewNotificationSendFailedError("sns", err).Error(),
		})
		return record("sns", StatusFailed)
	}
	return record("sns", StatusSent)
}

func record(channel string, s Status) Status {
	metrics.NotificationsSent.WithLabelValues(channel, string(s)).Inc()
	return s
}

// renderTemplate substitutes {{key}} placeholders and drops any left unfilled.
func renderTemplate(tmpl string, data map[string]string) string {
	result := tmpl
	for k, v := range data {
		result = strings.ReplaceAll(result, "{{"+k+"}}", v)
	}
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
