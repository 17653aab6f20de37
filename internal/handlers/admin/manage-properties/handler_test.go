// internal/handlers/admin/manage-properties/handler_test.go
package manageproperties

import (
	"context"
	"database/sql"
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
	"realestate-marketplace/internal/handlers/admin/common"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
)

// ==========================
// Mock Implementations
// ==========================

type MockIndexer struct {
	IndexErr error
	indexed  []string
	deleted  []string
}

func (m *MockIndexer) IndexProperty(_ context.Context, p models.Property) error {
	m.indexed = append(m.indexed, p.ID)
	return m.IndexErr
}

func (m *MockIndexer) DeleteProperty(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// ==========================
// Test Helper Functions
// ==========================

var propertyColumns = []string{
	"id", "title", "price", "price_numeric", "location", "property_type",
	"beds", "baths", "area", "image", "features", "created_at", "updated_at",
}

func createTestConfig() *Config {
	return &Config{PageSize: 50, Timeout: 3 * time.Second}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newHandler(t *testing.T, db *sql.DB, indexer *MockIndexer) *Handler {
	audit := common.NewAuditor(store.NewAdminStore(db), logger.NewTestLogger(t))
	return NewHandler(createTestConfig(), store.NewPropertyStore(db), indexer, audit, logger.NewTestLogger(t))
}

func propertyRow(id, title string) *sqlmock.Rows {
	return sqlmock.NewRows(propertyColumns).
		AddRow(id, title, "EGP 2,500,000", 2500000.0, "Maadi", "Villa", 4, 3, "300 sqm", "", "{}", time.Now(), nil)
}

func expectAudit(mock sqlmock.Sqlmock, action, entityID string) {
	mock.ExpectExec(`INSERT INTO admin_logs`).
		WithArgs(sqlmock.AnyArg(), "admin-1", action, "properties", entityID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func post(h *Handler, admin, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, Route, strings.NewReader(body))
	if admin != "" {
		req.Header.Set(httpx.HeaderUserID, admin)
	}
	rr := httptest.NewRecorder()
	h.Manage(rr, req)
	return rr
}

// ==========================
// GET
// ==========================

func TestHandler_List(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties WHERE \(title ILIKE \$1 OR location ILIKE \$1\) AND property_type = \$2 AND price_numeric >= \$3`).
		WithArgs("%nile%", "Villa", 1000000.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(`FROM properties WHERE .* ORDER BY created_at DESC NULLS LAST, id LIMIT 10 OFFSET 10`).
		WithArgs("%nile%", "Villa", 1000000.0).
		WillReturnRows(propertyRow("p11", "Nile villa"))

	h := newHandler(t, db, &MockIndexer{})
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/admin/properties?q=nile&propertyType=Villa&minPrice=1000000&page=2&limit=10", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var out ListOutput
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out.Properties, 1)
	assert.Equal(t, models.Pagination{Total: 21, Page: 2, Limit: 10, Pages: 3}, out.Pagination)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_List_BadPaging(t *testing.T) {
	db, _ := setupMockDB(t)
	h := newHandler(t, db, &MockIndexer{})
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/admin/properties?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"limit must be between 1 and 200"}`, rr.Body.String())
}

// ==========================
// POST
// ==========================

func TestHandler_Manage(t *testing.T) {
	tests := []struct {
		name      string
		admin     string
		body      string
		indexErr  error
		mockQuery func(mock sqlmock.Sqlmock)
		wantCode  int
		validate  func(t *testing.T, body []byte, indexer *MockIndexer)
	}{
		{
			name:  "create derives price_numeric",
			admin: "admin-1",
			body:  `{"action":"create","propertyData":{"title":"Nile villa","price":"EGP 2,500,000"}}`,
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO properties \(price, price_numeric, title\) VALUES \(\$1, \$2, \$3\) RETURNING`).
					WithArgs("EGP 2,500,000", 2500000.0, "Nile villa").
					WillReturnRows(propertyRow("p1", "Nile villa"))
				expectAudit(mock, "create_property", "p1")
			},
			wantCode: http.StatusOK,
			validate: func(t *testing.T, body []byte, indexer *MockIndexer) {
				var out struct {
					Success bool            `json:"success"`
					Data    models.Property `json:"data"`
				}
				require.NoError(t, json.Unmarshal(body, &out))
				assert.True(t, out.Success)
				assert.Equal(t, "p1", out.Data.ID)
				assert.Equal(t, []string{"p1"}, indexer.indexed)
			},
		},
		{
			name:     "index failure does not fail the update",
			admin:    "admin-1",
			body:     `{"action":"update","propertyId":"p1","propertyData":{"title":"Renamed"}}`,
			indexErr: errors.New("index read-only"),
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE properties SET title = \$1, updated_at = NOW\(\) WHERE id = \$2`).
					WithArgs("Renamed", "p1").
					WillReturnRows(propertyRow("p1", "Renamed"))
				expectAudit(mock, "update_property", "p1")
			},
			wantCode: http.StatusOK,
			validate: func(t *testing.T, _ []byte, indexer *MockIndexer) {
				assert.Equal(t, []string{"p1"}, indexer.indexed)
			},
		},
		{
			name:  "audit failure is tolerated",
			admin: "admin-1",
			body:  `{"action":"delete","propertyId":"p1"}`,
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM properties WHERE id = \$1`).WithArgs("p1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO admin_logs`).WillReturnError(errors.New("permission denied"))
			},
			wantCode: http.StatusOK,
			validate: func(t *testing.T, body []byte, indexer *MockIndexer) {
				assert.JSONEq(t, `{"success":true,"data":{"success":true,"message":"Property deleted successfully"}}`, string(body))
				assert.Equal(t, []string{"p1"}, indexer.deleted)
			},
		},
		{
			name:  "delete unknown",
			admin: "admin-1",
			body:  `{"action":"delete","propertyId":"ghost"}`,
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM properties`).WithArgs("ghost").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantCode: http.StatusNotFound,
			validate: func(t *testing.T, body []byte, indexer *MockIndexer) {
				assert.JSONEq(t, `{"error":"Property not found"}`, string(body))
				assert.Empty(t, indexer.deleted)
			},
		},
		{
			name:     "unknown column",
			admin:    "admin-1",
			body:     `{"action":"update","propertyId":"p1","propertyData":{"owner":"me"}}`,
			wantCode: http.StatusBadRequest,
			validate: func(t *testing.T, body []byte, _ *MockIndexer) {
				assert.JSONEq(t, `{"error":"unknown field: owner"}`, string(body))
			},
		},
		{
			name:     "missing action",
			admin:    "admin-1",
			body:     `{"propertyId":"p1"}`,
			wantCode: http.StatusBadRequest,
			validate: func(t *testing.T, body []byte, _ *MockIndexer) {
				assert.JSONEq(t, `{"error":"action is required"}`, string(body))
			},
		},
		{
			name:     "create without data",
			admin:    "admin-1",
			body:     `{"action":"create"}`,
			wantCode: http.StatusBadRequest,
			validate: func(t *testing.T, body []byte, _ *MockIndexer) {
				assert.JSONEq(t, `{"error":"propertyData is required"}`, string(body))
			},
		},
		{
			name:     "anonymous",
			body:     `{"action":"delete","propertyId":"p1"}`,
			wantCode: http.StatusUnauthorized,
			validate: func(t *testing.T, body []byte, _ *MockIndexer) {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			if tt.mockQuery != nil {
				tt.mockQuery(mock)
			}
			indexer := &MockIndexer{IndexErr: tt.indexErr}
			h := newHandler(t, db, indexer)

			rr := post(h, tt.admin, tt.body)
			assert.Equal(t, tt.wantCode, rr.Code)
			tt.validate(t, rr.Body.Bytes(), indexer)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_InvalidAction(t *testing.T) {
	db, _ := setupMockDB(t)
	h := newHandler(t, db, &MockIndexer{})

	_, err := h.Execute(context.Background(), &ManageInput{AdminID: "admin-1", Action: "archive"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid action")

	_, err = h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}
