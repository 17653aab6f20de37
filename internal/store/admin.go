package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"realestate-marketplace/internal/common/database"
	"realestate-marketplace/internal/models"
)

type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// Log records an admin action.
func (s *AdminStore) Log(ctx context.Context, entry models.AdminLog) error {
	var entityID, details interface{}
	if entry.EntityID != "" {
		entityID = entry.EntityID
	}
	if len(entry.Details) > 0 {
		details = []byte(entry.Details)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_logs (id, admin_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		uuid.NewString(), entry.AdminID, entry.Action, entry.EntityType, entityID, details)
	if err != nil {
		return fmt.Errorf("write admin log: %w", err)
	}
	return nil
}

func (s *AdminStore) RecentLogs(ctx context.Context, n int) ([]models.AdminLog, error) {
	logs, err := queryRows(ctx, s.db, func(row scanner) (models.AdminLog, error) {
		var l models.AdminLog
		var details []byte
		err := row.Scan(&l.ID, &l.AdminID, &l.Action, &l.EntityType, &l.EntityID, &details, &l.CreatedAt)
		if len(details) > 0 {
			l.Details = json.RawMessage(details)
		}
		return l, err
	}, `
		SELECT id, admin_id, action, entity_type, COALESCE(entity_id, ''), details, created_at
		FROM admin_logs
		ORDER BY created_at DESC
		LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("recent admin logs: %w", err)
	}
	return logs, nil
}

func (s *AdminStore) ListSettings(ctx context.Context) ([]models.AdminSetting, error) {
	settings, err := queryRows(ctx, s.db, func(row scanner) (models.AdminSetting, error) {
		var st models.AdminSetting
		var value []byte
		err := row.Scan(&st.ID, &st.SettingKey, &value, &st.UpdatedBy, &st.UpdatedAt)
		st.SettingValue = json.RawMessage(value)
		return st, err
	}, `
		SELECT id, setting_key, setting_value, COALESCE(updated_by::text, ''), updated_at
		FROM admin_settings
		ORDER BY setting_key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// UpsertSettings writes every key in one transaction, in key order.
func (s *AdminStore) UpsertSettings(ctx context.Context, settings map[string]json.RawMessage, updatedBy string) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, key := range keys {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO admin_settings (setting_key, setting_value, updated_by, updated_at)
				VALUES ($1, $2, $3, NOW())
				ON CONFLICT (setting_key) DO UPDATE SET
					setting_value = EXCLUDED.setting_value,
					updated_by = EXCLUDED.updated_by,
					updated_at = NOW()`,
				key, []byte(settings[key]), updatedBy)
			if err != nil {
				return fmt.Errorf("upsert setting %s: %w", key, err)
			}
		}
		return nil
	})
}

// Dashboard counts catalog and user activity since the given instant.
func (s *AdminStore) Dashboard(ctx context.Context, since time.Time, recent int) (*models.DashboardStats, error) {
	var st models.DashboardStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM properties),
			(SELECT COUNT(*) FROM furniture),
			(SELECT COUNT(*) FROM maintenance_bookings),
			(SELECT COUNT(*) FROM users WHERE created_at >= $1),
			(SELECT COUNT(*) FROM properties WHERE created_at >= $1),
			(SELECT COUNT(*) FROM maintenance_bookings WHERE created_at >= $1),
			(SELECT COUNT(DISTINCT user_id) FROM browsing_history WHERE viewed_at >= $1)`,
		since).Scan(
		&st.Totals.Users, &st.Totals.Properties, &st.Totals.Furniture, &st.Totals.Maintenance,
		&st.Period.NewUsers, &st.Period.NewProperties, &st.Period.NewBookings, &st.Period.ActiveUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	st.RecentActivity, err = s.RecentLogs(ctx, recent)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
