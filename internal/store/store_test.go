package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/ranking"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var propertyRowColumns = []string{
	"id", "title", "price", "price_numeric", "location", "property_type",
	"beds", "baths", "area", "image", "features", "created_at", "updated_at",
}

func propertyRows() *sqlmock.Rows {
	return sqlmock.NewRows(propertyRowColumns)
}

func addProperty(rows *sqlmock.Rows, id, location, typ string, price float64) *sqlmock.Rows {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return rows.AddRow(id, "Listing "+id, "EGP 1", price, location, typ, 3, 2, "180 sqm", "img.jpg", "{garden,pool}", created, nil)
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// ==========================
// Query building
// ==========================

func TestCatalogTable_FindSQL(t *testing.T) {
	tests := []struct {
		name     string
		table    catalogTable
		filter   ranking.Filter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:  "preference bounds",
			table: propertyTable,
			filter: ranking.Filter{
				MinPrice:  floatPtr(1),
				MaxPrice:  floatPtr(3_000_000),
				MinBeds:   intPtr(2),
				Locations: []string{"Maadi"},
				Types:     []string{"Villa"},
				Limit:     12,
			},
			wantSQL: "SELECT " + propertyColumns + " FROM properties WHERE price_numeric >= $1 AND price_numeric <= $2 AND beds >= $3" +
				" AND location = ANY($4) AND property_type = ANY($5) ORDER BY created_at DESC NULLS LAST, id LIMIT $6",
			wantArgs: []interface{}{1.0, 3_000_000.0, 2, pq.Array([]string{"Maadi"}), pq.Array([]string{"Villa"}), 12},
		},
		{
			name:  "history match any",
			table: propertyTable,
			filter: ranking.Filter{
				Locations:  []string{"New Cairo"},
				Types:      []string{"Villa"},
				MatchAny:   true,
				ExcludeIDs: []string{"a", "b"},
				Limit:      4,
			},
			wantSQL: "SELECT " + propertyColumns + " FROM properties WHERE (location = ANY($1) OR property_type = ANY($2))" +
				" AND id <> ALL($3) ORDER BY created_at DESC NULLS LAST, id LIMIT $4",
			wantArgs: []interface{}{pq.Array([]string{"New Cairo"}), pq.Array([]string{"Villa"}), pq.Array([]string{"a", "b"}), 4},
		},
		{
			name:     "popularity",
			table:    propertyTable,
			filter:   ranking.Filter{ExcludeIDs: []string{"a"}, OrderBy: ranking.OrderPriceDesc, Limit: 2},
			wantSQL:  "SELECT " + propertyColumns + " FROM properties WHERE id <> ALL($1) ORDER BY price_numeric DESC NULLS LAST, id LIMIT $2",
			wantArgs: []interface{}{pq.Array([]string{"a"}), 2},
		},
		{
			name:     "furniture ignores locations and beds",
			table:    furnitureTable,
			filter:   ranking.Filter{Locations: []string{"x"}, Types: []string{"Bedroom"}, MatchAny: true, MinBeds: intPtr(2)},
			wantSQL:  "SELECT " + furnitureColumns + " FROM furniture WHERE category = ANY($1) ORDER BY created_at DESC NULLS LAST, id",
			wantArgs: []interface{}{pq.Array([]string{"Bedroom"})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, args := tt.table.findSQL(tt.filter)
			assert.Equal(t, tt.wantSQL, stmt)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestColumnSet_Statements(t *testing.T) {
	stmt, args, err := propertyWritable.insertSQL("properties", "id", map[string]interface{}{
		"title":    "Nile view",
		"features": []interface{}{"garden", "pool"},
		"beds":     3,
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO properties (beds, features, title) VALUES ($1, $2, $3) RETURNING id", stmt)
	assert.Equal(t, []interface{}{3, pq.Array([]string{"garden", "pool"}), "Nile view"}, args)

	stmt, args, err = propertyWritable.updateSQL("properties", "id", "p1", map[string]interface{}{"title": "x"}, true)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE properties SET title = $1, updated_at = NOW() WHERE id = $2 RETURNING id", stmt)
	assert.Equal(t, []interface{}{"x", "p1"}, args)

	_, _, err = propertyWritable.insertSQL("properties", "id", map[string]interface{}{"is_admin": true})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, _, err = propertyWritable.updateSQL("properties", "id", "p1", map[string]interface{}{}, true)
	assert.ErrorIs(t, err, ErrNoFields)
}

func TestPriceNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"EGP 2,500,000", 2_500_000, true},
		{"1500", 1500, true},
		{"$ 12,000 / month", 12_000, true},
		{"call us", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := PriceNumeric(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDerivePriceNumeric(t *testing.T) {
	in := map[string]interface{}{"price": "EGP 3,000,000"}
	out := derivePriceNumeric(in)
	assert.Equal(t, 3_000_000.0, out["price_numeric"])
	assert.NotContains(t, in, "price_numeric", "input is not mutated")

	explicit := derivePriceNumeric(map[string]interface{}{"price": "EGP 5", "price_numeric": 7})
	assert.Equal(t, 7, explicit["price_numeric"])
}

// ==========================
// Catalog stores
// ==========================

func TestPropertyStore_Find(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewPropertyStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE id <> ALL($1) ORDER BY price_numeric DESC")).
		WithArgs(sqlmock.AnyArg(), 2).
		WillReturnRows(addProperty(addProperty(propertyRows(), "p1", "Maadi", "Villa", 9e6), "p2", "Zamalek", "Apartment", 8e6))

	got, err := s.Find(context.Background(), ranking.Filter{ExcludeIDs: []string{"x"}, OrderBy: ranking.OrderPriceDesc, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, []string{"garden", "pool"}, got[0].Features)
	require.NotNil(t, got[0].PriceNumeric)
	assert.Equal(t, 9e6, *got[0].PriceNumeric)
	assert.Nil(t, got[0].UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_FindError(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewPropertyStore(db)

	boom := errors.New("connection refused")
	mock.ExpectQuery("FROM properties").WillReturnError(boom)

	_, err := s.Find(context.Background(), ranking.Filter{Limit: 1})
	assert.ErrorIs(t, err, boom)
}

func TestPropertyStore_FindByIDs_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	got, err := NewPropertyStore(db).FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_Search(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewPropertyStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE (title ILIKE $1 OR location ILIKE $1) AND property_type = $2 AND beds >= $3 ORDER BY created_at DESC")).
		WithArgs("%nile%", "Apartment", 2).
		WillReturnRows(addProperty(propertyRows(), "p1", "Zamalek", "Apartment", 5e6))

	got, err := s.Search(context.Background(), PropertyQuery{Text: "nile", PropertyType: "Apartment", MinBeds: intPtr(2)})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_ListPage(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewPropertyStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM properties WHERE (title ILIKE $1 OR location ILIKE $1)")).
		WithArgs("%villa%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(51))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC NULLS LAST, id LIMIT 50 OFFSET 50")).
		WithArgs("%villa%").
		WillReturnRows(addProperty(propertyRows(), "p51", "Maadi", "Villa", 1))

	items, total, err := s.ListPage(context.Background(), PropertyQuery{Text: "villa"}, 2, 50)
	require.NoError(t, err)
	assert.Equal(t, 51, total)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_CreateDerivesPrice(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewPropertyStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO properties (price, price_numeric, title) VALUES ($1, $2, $3) RETURNING")).
		WithArgs("EGP 4,200,000", 4_200_000.0, "Garden villa").
		WillReturnRows(addProperty(propertyRows(), "new", "Maadi", "Villa", 4_200_000))

	p, err := s.Create(context.Background(), map[string]interface{}{"title": "Garden villa", "price": "EGP 4,200,000"})
	require.NoError(t, err)
	assert.Equal(t, "new", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_UpdateMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewPropertyStore(db)

	mock.ExpectQuery("UPDATE properties SET").WillReturnRows(propertyRows())

	_, err := s.Update(context.Background(), "ghost", map[string]interface{}{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPropertyStore_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewPropertyStore(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM properties WHERE id = $1")).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM properties WHERE id = $1")).WithArgs("p2").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Delete(context.Background(), "p1"))
	assert.ErrorIs(t, s.Delete(context.Background(), "p2"), ErrNotFound)
}

func TestFurnitureStore_Find(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewFurnitureStore(db)

	rows := sqlmock.NewRows([]string{"id", "title", "description", "category", "price", "price_numeric", "rating", "reviews", "image", "created_at", "updated_at"}).
		AddRow("f1", "Sofa", "", "Living Room", "EGP 20,000", 20000.0, 4.5, 12, "", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM furniture WHERE category = ANY($1)")).
		WithArgs(sqlmock.AnyArg(), 6).
		WillReturnRows(rows)

	got, err := s.Find(context.Background(), ranking.Filter{Types: []string{"Living Room"}, Limit: 6})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Living Room", got[0].Category)
	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 4.5, *got[0].Rating)
}

// ==========================
// Signals
// ==========================

func TestPreferenceStore_FindMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewPreferenceStore(db)

	mock.ExpectQuery("FROM user_preferences").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	pref, err := s.Find(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, pref)
}

func TestPreferenceStore_Find(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewPreferenceStore(db)

	mock.ExpectQuery("FROM user_preferences").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "min_price", "max_price", "min_beds", "min_baths", "preferred_locations", "preferred_property_types", "updated_at"}).
			AddRow("u1", nil, 3_000_000.0, 2, nil, "{Maadi}", nil, nil))

	pref, err := s.Find(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Nil(t, pref.MinPrice)
	assert.Equal(t, 3_000_000.0, *pref.MaxPrice)
	assert.Equal(t, 2, *pref.MinBeds)
	assert.Equal(t, []string{"Maadi"}, pref.PreferredLocations)
	assert.Nil(t, pref.PreferredPropertyTypes)
}

func TestPropertySignals(t *testing.T) {
	db, mock := setupMockDB(t)
	signals := PropertySignals{Preferences: NewPreferenceStore(db), Interactions: NewInteractionStore(db)}
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT property_id FROM browsing_history WHERE user_id = $1 ORDER BY viewed_at DESC LIMIT $2")).
		WithArgs("u1", 10).
		WillReturnRows(sqlmock.NewRows([]string{"property_id"}).AddRow("p3").AddRow("p1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT property_id FROM saved_properties WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"property_id"}))

	views, err := signals.RecentViews(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1"}, views)

	saved, err := signals.SavedIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFurnitureSignals(t *testing.T) {
	db, mock := setupMockDB(t)
	signals := FurnitureSignals{Interactions: NewInteractionStore(db)}
	ctx := context.Background()

	pref, err := signals.Preference(ctx, "u1")
	assert.NoError(t, err)
	assert.Nil(t, pref)

	saved, err := signals.SavedIDs(ctx, "u1")
	assert.NoError(t, err)
	assert.Nil(t, saved)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT furniture_id FROM furniture_browsing_history")).
		WithArgs("u1", 10).
		WillReturnRows(sqlmock.NewRows([]string{"furniture_id"}).AddRow("f1"))
	views, err := signals.RecentViews(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, views)
}

// ==========================
// Interactions
// ==========================

func TestInteractionStore_RecordViews(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewInteractionStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO browsing_history (user_id, property_id, viewed_at)")).
		WithArgs("u1", "p1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, furniture_id) DO UPDATE SET viewed_at = NOW()")).
		WithArgs("u1", "f1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.RecordPropertyView(context.Background(), "u1", "p1"))
	require.NoError(t, s.RecordFurnitureView(context.Background(), "u1", "f1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionStore_SavedProperties(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewInteractionStore(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, property_id) DO NOTHING")).
		WithArgs("u1", "p1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM saved_properties").
		WithArgs("u1", "p9").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.SaveProperty(ctx, "u1", "p1"))
	assert.ErrorIs(t, s.UnsaveProperty(ctx, "u1", "p9"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Users and admin
// ==========================

func TestAdminCache(t *testing.T) {
	db, mock := setupMockDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewAdminCache(NewUserStore(db), rdb, time.Minute)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(is_admin, false) FROM users WHERE id = $1")).
		WithArgs("admin-1").
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"}).AddRow(true))

	ok, err := cache.IsAdmin(ctx, "admin-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("user:admin:admin-1"))

	ok, err = cache.IsAdmin(ctx, "admin-1")
	require.NoError(t, err)
	assert.True(t, ok, "second check served from cache")
	assert.NoError(t, mock.ExpectationsWereMet())

	require.NoError(t, cache.Invalidate(ctx, "admin-1"))
	assert.False(t, mr.Exists("user:admin:admin-1"))
}

func TestUserStore_IsAdminUnknownUser(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("FROM users").WithArgs("ghost").WillReturnRows(sqlmock.NewRows([]string{"is_admin"}))

	ok, err := NewUserStore(db).IsAdmin(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminStore_UpsertSettings(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewAdminStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO admin_settings").WithArgs("currency", []byte(`"EGP"`), "admin-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO admin_settings").WithArgs("site_name", []byte(`"Nest"`), "admin-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.UpsertSettings(context.Background(), map[string]json.RawMessage{
		"site_name": json.RawMessage(`"Nest"`),
		"currency":  json.RawMessage(`"EGP"`),
	}, "admin-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminStore_UpsertSettingsRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewAdminStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO admin_settings").WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := s.UpsertSettings(context.Background(), map[string]json.RawMessage{"k": json.RawMessage(`1`)}, "admin-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminStore_Dashboard(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewAdminStore(db)
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("(SELECT COUNT(DISTINCT user_id) FROM browsing_history WHERE viewed_at >= $1)")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f", "g", "h"}).AddRow(10, 20, 30, 4, 1, 2, 3, 5))
	mock.ExpectQuery("FROM admin_logs").WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_id", "action", "entity_type", "entity_id", "details", "created_at"}).
			AddRow("l1", "admin-1", "create_property", "properties", "p1", []byte(`{"title":"x"}`), since))

	st, err := s.Dashboard(context.Background(), since, 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatsTotals{Users: 10, Properties: 20, Furniture: 30, Maintenance: 4}, st.Totals)
	assert.Equal(t, models.PeriodStats{NewUsers: 1, NewProperties: 2, NewBookings: 3, ActiveUsers: 5}, st.Period)
	require.Len(t, st.RecentActivity, 1)
	assert.JSONEq(t, `{"title":"x"}`, string(st.RecentActivity[0].Details))
}

func TestMaintenanceStore_CreateBooking(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewMaintenanceStore(db)

	mock.ExpectQuery("INSERT INTO maintenance_bookings").
		WithArgs(sqlmock.AnyArg(), "u1", nil, "Plumbing", "2025-06-01", "10:00", nil, models.BookingStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "provider_id", "service_type", "booking_date", "booking_time", "notes", "status", "created_at", "updated_at"}).
			AddRow("b1", "u1", nil, "Plumbing", "2025-06-01", "10:00:00", "", "pending", nil, nil))

	b, err := s.CreateBooking(context.Background(), models.MaintenanceBooking{
		UserID: "u1", ServiceType: "Plumbing", BookingDate: "2025-06-01", BookingTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", b.Status)
	assert.Nil(t, b.ProviderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
