// internal/handlers/maintenance/book-service/handler_test.go
package bookservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/notify"
	"realestate-marketplace/internal/store"
)

// ==========================
// Mock Implementations
// ==========================

type MockEmailer struct {
	SendTextFunc func(ctx context.Context, from, to, subject, body string) (string, error)
	to           string
}

func (m *MockEmailer) SendText(ctx context.Context, from, to, subject, body string) (string, error) {
	m.to = to
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, from, to, subject, body)
	}
	return "msg-1", nil
}

type MockPublisher struct {
	PublishFunc func(ctx context.Context, topicARN, eventType, subject, message string) (string, error)
	eventType   string
}

func (m *MockPublisher) PublishEvent(ctx context.Context, topicARN, eventType, subject, message string) (string, error) {
	m.eventType = eventType
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topicARN, eventType, subject, message)
	}
	return "evt-1", nil
}

// ==========================
// Test Helper Functions
// ==========================

var (
	bookingColumns = []string{
		"id", "user_id", "provider_id", "service_type", "booking_date", "booking_time",
		"notes", "status", "created_at", "updated_at",
	}
	userColumns = []string{"id", "email", "full_name", "name", "is_admin", "created_at"}
)

func createTestConfig() *Config {
	return &Config{Timeout: 3 * time.Second}
}

func newNotifier(t *testing.T, emailer *MockEmailer, publisher *MockPublisher) *notify.BookingNotifier {
	return notify.NewBookingNotifier(notify.Config{
		EmailEnabled: true,
		FromEmail:    "bookings@example.com",
		TopicEnabled: true,
		TopicARN:     "arn:aws:sns:eu-west-1:123456789012:maintenance",
	}, emailer, publisher, logger.NewTestLogger(t))
}

func expectInsert(mock sqlmock.Sqlmock, providerID interface{}) {
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO maintenance_bookings`).
		WithArgs(sqlmock.AnyArg(), "u1", sqlmock.AnyArg(), "Plumbing", "2025-06-01", "10:30", sqlmock.AnyArg(), "pending").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow("b1", "u1", providerID, "Plumbing", "2025-06-01", "10:30:00", "", "pending", now, nil))
}

func post(h http.Handler, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, Route, strings.NewReader(body))
	if user != "" {
		req.Header.Set(httpx.HeaderUserID, user)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// ==========================
// HTTP
// ==========================

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name      string
		user      string
		body      string
		mockQuery func(mock sqlmock.Sqlmock)
		emailErr  error
		wantCode  int
		validate  func(t *testing.T, body []byte, emailer *MockEmailer, publisher *MockPublisher)
	}{
		{
			name: "booked and notified",
			user: "u1",
			body: `{"serviceType":"Plumbing","date":"2025-06-01","time":"10:30"}`,
			mockQuery: func(mock sqlmock.Sqlmock) {
				expectInsert(mock, nil)
				mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("u1").
					WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "mona@example.com", "Mona Adel", "mona", false, nil))
			},
			wantCode: http.StatusOK,
			validate: func(t *testing.T, body []byte, emailer *MockEmailer, publisher *MockPublisher) {
				var out Output
				require.NoError(t, json.Unmarshal(body, &out))
				assert.True(t, out.Success)
				require.NotNil(t, out.Booking)
				assert.Equal(t, "pending", out.Booking.Status)
				require.NotNil(t, out.Notifications)
				assert.Equal(t, notify.StatusSent, out.Notifications.Email)
				assert.Equal(t, notify.StatusSent, out.Notifications.Topic)
				assert.Equal(t, "mona@example.com", emailer.to)
				assert.Equal(t, notify.EventBookingCreated, publisher.eventType)
			},
		},
		{
			name: "email failure still books",
			user: "u1",
			body: `{"serviceType":"Plumbing","date":"2025-06-01","time":"10:30","providerId":"m1"}`,
			mockQuery: func(mock sqlmock.Sqlmock) {
				expectInsert(mock, "m1")
				mock.ExpectQuery(`FROM users`).WillReturnRows(sqlmock.NewRows(userColumns).
					AddRow("u1", "mona@example.com", "", "", false, nil))
			},
			emailErr: errors.New("MessageRejected"),
			wantCode: http.StatusOK,
			validate: func(t *testing.T, body []byte, _ *MockEmailer, _ *MockPublisher) {
				var out Output
				require.NoError(t, json.Unmarshal(body, &out))
				assert.True(t, out.Success)
				require.NotNil(t, out.Booking.ProviderID)
				assert.Equal(t, "m1", *out.Booking.ProviderID)
				assert.Equal(t, notify.StatusFailed, out.Notifications.Email)
			},
		},
		{
			name: "unknown user skips email",
			user: "u1",
			body: `{"serviceType":"Plumbing","date":"2025-06-01","time":"10:30"}`,
			mockQuery: func(mock sqlmock.Sqlmock) {
				expectInsert(mock, nil)
				mock.ExpectQuery(`FROM users`).WillReturnRows(sqlmock.NewRows(userColumns))
			},
			wantCode: http.StatusOK,
			validate: func(t *testing.T, body []byte, emailer *MockEmailer, _ *MockPublisher) {
				var out Output
				require.NoError(t, json.Unmarshal(body, &out))
				assert.Equal(t, notify.StatusDisabled, out.Notifications.Email)
				assert.Empty(t, emailer.to)
			},
		},
		{
			name:     "anonymous",
			body:     `{"serviceType":"Plumbing","date":"2025-06-01","time":"10:30"}`,
			wantCode: http.StatusUnauthorized,
			validate: func(t *testing.T, body []byte, _ *MockEmailer, _ *MockPublisher) {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))
			},
		},
		{
			name:     "missing fields",
			user:     "u1",
			body:     `{"serviceType":"Plumbing","date":"2025-06-01"}`,
			wantCode: http.StatusBadRequest,
			validate: func(t *testing.T, body []byte, _ *MockEmailer, _ *MockPublisher) {
				assert.JSONEq(t, `{"error":"Missing required fields"}`, string(body))
			},
		},
		{
			name:     "bad date",
			user:     "u1",
			body:     `{"serviceType":"Plumbing","date":"01/06/2025","time":"10:30"}`,
			wantCode: http.StatusBadRequest,
			validate: func(t *testing.T, body []byte, _ *MockEmailer, _ *MockPublisher) {
				assert.JSONEq(t, `{"error":"date must be formatted YYYY-MM-DD"}`, string(body))
			},
		},
		{
			name: "insert failure",
			user: "u1",
			body: `{"serviceType":"Plumbing","date":"2025-06-01","time":"10:30"}`,
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO maintenance_bookings`).WillReturnError(errors.New("foreign key violation"))
			},
			wantCode: http.StatusInternalServerError,
			validate: func(t *testing.T, body []byte, emailer *MockEmailer, _ *MockPublisher) {
				assert.JSONEq(t, `{"error":"Internal Server Error"}`, string(body))
				assert.Empty(t, emailer.to)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			if tt.mockQuery != nil {
				tt.mockQuery(mock)
			}

			emailer := &MockEmailer{}
			if tt.emailErr != nil {
				emailer.SendTextFunc = func(context.Context, string, string, string, string) (string, error) {
					return "", tt.emailErr
				}
			}
			publisher := &MockPublisher{}
			h := NewHandler(createTestConfig(), store.NewMaintenanceStore(db), store.NewUserStore(db),
				newNotifier(t, emailer, publisher), logger.NewTestLogger(t))

			rr := post(h, tt.user, tt.body)
			assert.Equal(t, tt.wantCode, rr.Code)
			tt.validate(t, rr.Body.Bytes(), emailer, publisher)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_WithoutNotifier(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectInsert(mock, nil)

	h := NewHandler(createTestConfig(), store.NewMaintenanceStore(db), nil, nil, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{
		UserID: "u1", ServiceType: "Plumbing", Date: "2025-06-01", Time: "10:30",
	})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Nil(t, out.Notifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}
