package store

import (
	"context"

	"realestate-marketplace/internal/models"
)

// PropertySignals feeds property recommendations from preferences, browsing
// history and saved properties.
type PropertySignals struct {
	Preferences  *PreferenceStore
	Interactions *InteractionStore
}

func (s PropertySignals) Preference(ctx context.Context, userID string) (*models.UserPreference, error) {
	return s.Preferences.Find(ctx, userID)
}

func (s PropertySignals) RecentViews(ctx context.Context, userID string, n int) ([]string, error) {
	return s.Interactions.RecentPropertyViews(ctx, userID, n)
}

func (s PropertySignals) SavedIDs(ctx context.Context, userID string) ([]string, error) {
	return s.Interactions.SavedPropertyIDs(ctx, userID)
}

// FurnitureSignals has browsing history only: furniture carries no
// preference record and cannot be saved.
type FurnitureSignals struct {
	Interactions *InteractionStore
}

func (s FurnitureSignals) Preference(context.Context, string) (*models.UserPreference, error) {
	return nil, nil
}

func (s FurnitureSignals) RecentViews(ctx context.Context, userID string, n int) ([]string, error) {
	return s.Interactions.RecentFurnitureViews(ctx, userID, n)
}

func (s FurnitureSignals) SavedIDs(context.Context, string) ([]string, error) {
	return nil, nil
}
