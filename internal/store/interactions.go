package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"realestate-marketplace/internal/models"
)

// viewTable names a browsing-history table and its item column.
type viewTable struct {
	table  string
	itemID string
}

var (
	propertyViews  = viewTable{table: "browsing_history", itemID: "property_id"}
	furnitureViews = viewTable{table: "furniture_browsing_history", itemID: "furniture_id"}
)

type InteractionStore struct {
	db *sql.DB
}

func NewInteractionStore(db *sql.DB) *InteractionStore {
	return &InteractionStore{db: db}
}

func (s *InteractionStore) recordView(ctx context.Context, v viewTable, userID, itemID string) error {
	stmt := fmt.Sprintf(`
		INSERT INTO %[1]s (user_id, %[2]s, viewed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, %[2]s) DO UPDATE SET viewed_at = NOW()`, v.table, v.itemID)
	if _, err := s.db.ExecContext(ctx, stmt, userID, itemID); err != nil {
		return fmt.Errorf("record view in %s: %w", v.table, err)
	}
	return nil
}

func (s *InteractionStore) recentViews(ctx context.Context, v viewTable, userID string, n int) ([]string, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY viewed_at DESC LIMIT $2`, v.itemID, v.table)
	ids, err := queryRows(ctx, s.db, scanString, stmt, userID, n)
	if err != nil {
		return nil, fmt.Errorf("recent views from %s: %w", v.table, err)
	}
	return ids, nil
}

func scanString(row scanner) (string, error) {
	var s string
	err := row.Scan(&s)
	return s, err
}

// RecordPropertyView upserts the (user, property) view with the current time.
func (s *InteractionStore) RecordPropertyView(ctx context.Context, userID, propertyID string) error {
	return s.recordView(ctx, propertyViews, userID, propertyID)
}

func (s *InteractionStore) RecordFurnitureView(ctx context.Context, userID, furnitureID string) error {
	return s.recordView(ctx, furnitureViews, userID, furnitureID)
}

func (s *InteractionStore) RecentPropertyViews(ctx context.Context, userID string, n int) ([]string, error) {
	return s.recentViews(ctx, propertyViews, userID, n)
}

func (s *InteractionStore) RecentFurnitureViews(ctx context.Context, userID string, n int) ([]string, error) {
	return s.recentViews(ctx, furnitureViews, userID, n)
}

// SavedPropertyIDs returns the user's saved property ids, newest first.
func (s *InteractionStore) SavedPropertyIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := queryRows(ctx, s.db, scanString,
		`SELECT property_id FROM saved_properties WHERE user_id = $1 ORDER BY saved_at DESC, property_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load saved properties: %w", err)
	}
	return ids, nil
}

// ListSaved joins the user's saved rows with their properties, newest first.
func (s *InteractionStore) ListSaved(ctx context.Context, userID string) ([]models.SavedProperty, error) {
	stmt := `
		SELECT s.id, s.user_id, s.property_id, s.saved_at,
		       p.id, p.title, p.price, p.price_numeric, p.location, p.property_type,
		       p.beds, p.baths, p.area, p.image, p.features, p.created_at, p.updated_at
		FROM saved_properties s
		JOIN properties p ON p.id = s.property_id
		WHERE s.user_id = $1
		ORDER BY s.saved_at DESC`
	saved, err := queryRows(ctx, s.db, func(row scanner) (models.SavedProperty, error) {
		var sp models.SavedProperty
		var p models.Property
		err := row.Scan(
			&sp.ID, &sp.UserID, &sp.PropertyID, &sp.SavedAt,
			&p.ID, &p.Title, &p.Price, &p.PriceNumeric, &p.Location, &p.PropertyType,
			&p.Beds, &p.Baths, &p.Area, &p.Image, pq.Array(&p.Features), &p.CreatedAt, &p.UpdatedAt,
		)
		sp.Property = &p
		return sp, err
	}, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved properties: %w", err)
	}
	return saved, nil
}

// SaveProperty is idempotent.
func (s *InteractionStore) SaveProperty(ctx context.Context, userID, propertyID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_properties (user_id, property_id, saved_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, property_id) DO NOTHING`, userID, propertyID)
	if err != nil {
		return fmt.Errorf("save property: %w", err)
	}
	return nil
}

func (s *InteractionStore) UnsaveProperty(ctx context.Context, userID, propertyID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_properties WHERE user_id = $1 AND property_id = $2`, userID, propertyID)
	if err != nil {
		return fmt.Errorf("unsave property: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
