package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"realestate-marketplace/internal/models"
)

type PreferenceStore struct {
	db *sql.DB
}

func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Find returns the user's preference record, or nil when none exists.
func (s *PreferenceStore) Find(ctx context.Context, userID string) (*models.UserPreference, error) {
	var p models.UserPreference
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, min_price, max_price, min_beds, min_baths,
		       preferred_locations, preferred_property_types, updated_at
		FROM user_preferences
		WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.MinPrice, &p.MaxPrice, &p.MinBeds, &p.MinBaths,
		pq.Array(&p.PreferredLocations), pq.Array(&p.PreferredPropertyTypes), &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return &p, nil
}

// Upsert writes the whole record, replacing any previous one.
func (s *PreferenceStore) Upsert(ctx context.Context, p models.UserPreference) (*models.UserPreference, error) {
	var out models.UserPreference
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_preferences
			(user_id, min_price, max_price, min_beds, min_baths,
			 preferred_locations, preferred_property_types, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			min_price = EXCLUDED.min_price,
			max_price = EXCLUDED.max_price,
			min_beds = EXCLUDED.min_beds,
			min_baths = EXCLUDED.min_baths,
			preferred_locations = EXCLUDED.preferred_locations,
			preferred_property_types = EXCLUDED.preferred_property_types,
			updated_at = NOW()
		RETURNING user_id, min_price, max_price, min_beds, min_baths,
		          preferred_locations, preferred_property_types, updated_at`,
		p.UserID, p.MinPrice, p.MaxPrice, p.MinBeds, p.MinBaths,
		pq.Array(p.PreferredLocations), pq.Array(p.PreferredPropertyTypes),
	).Scan(
		&out.UserID, &out.MinPrice, &out.MaxPrice, &out.MinBeds, &out.MinBaths,
		pq.Array(&out.PreferredLocations), pq.Array(&out.PreferredPropertyTypes), &out.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}
	return &out, nil
}
