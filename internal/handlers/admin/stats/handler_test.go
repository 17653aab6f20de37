// internal/handlers/admin/stats/handler_test.go
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

func createTestConfig() *Config {
	return &Config{CacheTTL: time.Minute, RecentLimit: 10, Timeout: 3 * time.Second}
}

func setup(t *testing.T, withCache bool) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var (
		mr    *miniredis.Miniredis
		cache redis.Cmdable
	)
	if withCache {
		mr = miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
		cache = rdb
	}

	h := NewHandler(createTestConfig(), store.NewAdminStore(db), cache, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h, mock, mr
}

func expectDashboard(mock sqlmock.Sqlmock, since time.Time) {
	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM users\)`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"u", "p", "f", "m", "nu", "np", "nb", "au"}).
			AddRow(120, 45, 300, 18, 7, 3, 2, 31))
	mock.ExpectQuery(`FROM admin_logs\s+ORDER BY created_at DESC\s+LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_id", "action", "entity_type", "entity_id", "details", "created_at"}).
			AddRow("l1", "admin-1", "create_property", "properties", "p1", []byte(`{"property_title":"Villa"}`), fixedNow))
}

func get(h *Handler, query string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, Route+query, nil))
	return rr
}

// ==========================
// Period arithmetic
// ==========================

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		period models.StatsPeriod
		want   time.Time
	}{
		{models.PeriodDay, time.Date(2026, 3, 30, 12, 0, 0, 0, time.UTC)},
		{models.PeriodWeek, time.Date(2026, 3, 24, 12, 0, 0, 0, time.UTC)},
		{models.PeriodMonth, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)},
		{models.PeriodYear, time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			assert.Equal(t, tt.want, PeriodStart(fixedNow, tt.period))
		})
	}
}

// ==========================
// HTTP
// ==========================

func TestHandler_ServeHTTP_DefaultsToWeek(t *testing.T) {
	h, mock, mr := setup(t, true)
	expectDashboard(mock, PeriodStart(fixedNow, models.PeriodWeek))

	rr := get(h, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var out models.DashboardStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, models.StatsTotals{Users: 120, Properties: 45, Furniture: 300, Maintenance: 18}, out.Totals)
	assert.Equal(t, models.PeriodStats{NewUsers: 7, NewProperties: 3, NewBookings: 2, ActiveUsers: 31}, out.Period)
	require.Len(t, out.RecentActivity, 1)
	assert.Equal(t, "create_property", out.RecentActivity[0].Action)

	assert.True(t, mr.Exists("admin:stats:week"))
	assert.Equal(t, time.Minute, mr.TTL("admin:stats:week"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_ServeHTTP_ServesFromCache(t *testing.T) {
	h, mock, _ := setup(t, true)
	expectDashboard(mock, PeriodStart(fixedNow, models.PeriodDay))

	first := get(h, "?period=day")
	require.Equal(t, http.StatusOK, first.Code)

	// A second call must not reach Postgres; sqlmock fails on unexpected queries.
	second := get(h, "?period=day")
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_ServeHTTP_Errors(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		mockQuery func(mock sqlmock.Sqlmock)
		wantCode  int
		wantBody  string
	}{
		{
			name:     "unknown period",
			query:    "?period=decade",
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"period must be one of day, week, month, year"}`,
		},
		{
			name:  "store failure",
			query: "?period=month",
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("relation \"browsing_history\" does not exist"))
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, _ := setup(t, false)
			if tt.mockQuery != nil {
				tt.mockQuery(mock)
			}
			rr := get(h, tt.query)
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_NoCache(t *testing.T) {
	h, mock, _ := setup(t, false)
	expectDashboard(mock, PeriodStart(fixedNow, models.PeriodYear))

	out, err := h.Execute(context.Background(), &Input{Period: models.PeriodYear})
	require.NoError(t, err)
	assert.Equal(t, 120, out.Totals.Users)

	_, err = h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}
