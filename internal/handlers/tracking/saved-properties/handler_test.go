// internal/handlers/tracking/saved-properties/handler_test.go
package savedproperties

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
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 3 * time.Second}
}

type MockSavedStore struct {
	ListFunc   func(ctx context.Context, userID string) ([]models.SavedProperty, error)
	SaveFunc   func(ctx context.Context, userID, propertyID string) error
	UnsaveFunc func(ctx context.Context, userID, propertyID string) error
}

func (m *MockSavedStore) ListSaved(ctx context.Context, userID string) ([]models.SavedProperty, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockSavedStore) SaveProperty(ctx context.Context, userID, propertyID string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, userID, propertyID)
	}
	return nil
}

func (m *MockSavedStore) UnsaveProperty(ctx context.Context, userID, propertyID string) error {
	if m.UnsaveFunc != nil {
		return m.UnsaveFunc(ctx, userID, propertyID)
	}
	return nil
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get(Route, h.List)
	r.Post(Route, h.Save)
	r.Delete(ItemRoute, h.Unsave)
	return r
}

func do(h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
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

func TestHandler_Routes(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		user     string
		body     string
		store    *MockSavedStore
		wantCode int
		wantBody string
	}{
		{
			name:     "list empty",
			method:   http.MethodGet,
			path:     "/saved-properties",
			user:     "u1",
			store:    &MockSavedStore{},
			wantCode: http.StatusOK,
			wantBody: `{"saved_properties":[]}`,
		},
		{
			name:     "list anonymous",
			method:   http.MethodGet,
			path:     "/saved-properties",
			store:    &MockSavedStore{},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Unauthorized"}`,
		},
		{
			name:   "list failure",
			method: http.MethodGet,
			path:   "/saved-properties",
			user:   "u1",
			store: &MockSavedStore{ListFunc: func(context.Context, string) ([]models.SavedProperty, error) {
				return nil, errors.New("connection reset")
			}},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
		},
		{
			name:   "save",
			method: http.MethodPost,
			path:   "/saved-properties",
			user:   "u1",
			body:   `{"property_id":"p1"}`,
			store: &MockSavedStore{SaveFunc: func(_ context.Context, userID, propertyID string) error {
				if userID != "u1" || propertyID != "p1" {
					return errors.New("unexpected arguments")
				}
				return nil
			}},
			wantCode: http.StatusOK,
			wantBody: `{"success":true}`,
		},
		{
			name:     "save without property",
			method:   http.MethodPost,
			path:     "/saved-properties",
			user:     "u1",
			body:     `{}`,
			store:    &MockSavedStore{},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Property ID is required"}`,
		},
		{
			name:     "unsave",
			method:   http.MethodDelete,
			path:     "/saved-properties/p1",
			user:     "u1",
			store:    &MockSavedStore{},
			wantCode: http.StatusOK,
			wantBody: `{"success":true}`,
		},
		{
			name:   "unsave unknown",
			method: http.MethodDelete,
			path:   "/saved-properties/p9",
			user:   "u1",
			store: &MockSavedStore{UnsaveFunc: func(context.Context, string, string) error {
				return store.ErrNotFound
			}},
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Saved property not found"}`,
		},
		{
			name:     "unsave anonymous",
			method:   http.MethodDelete,
			path:     "/saved-properties/p1",
			store:    &MockSavedStore{},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Unauthorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), tt.store, logger.NewTestLogger(t))
			rr := do(newRouter(h), tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestHandler_List_WithStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	savedAt := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM saved_properties s\s+JOIN properties p`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "property_id", "saved_at",
			"p_id", "title", "price", "price_numeric", "location", "property_type",
			"beds", "baths", "area", "image", "features", "created_at", "updated_at",
		}).AddRow("s1", "u1", "p1", savedAt,
			"p1", "Nile view", "EGP 2,000,000", 2000000.0, "Zamalek", "Apartment",
			3, 2, "180 sqm", "img.jpg", "{balcony}", savedAt, nil))

	h := NewHandler(createTestConfig(), store.NewInteractionStore(db), logger.NewNoOpLogger())
	rr := do(newRouter(h), http.MethodGet, "/saved-properties", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var out ListOutput
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out.SavedProperties, 1)
	assert.Equal(t, "p1", out.SavedProperties[0].PropertyID)
	require.NotNil(t, out.SavedProperties[0].Property)
	assert.Equal(t, "Zamalek", out.SavedProperties[0].Property.Location)
	assert.Equal(t, []string{"balcony"}, out.SavedProperties[0].Property.Features)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NilInput(t *testing.T) {
	h := NewHandler(createTestConfig(), &MockSavedStore{}, logger.NewNoOpLogger())
	_, err := h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}
