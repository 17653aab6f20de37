package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"realestate-marketplace/internal/models"
)

type SearchHistoryStore struct {
	db *sql.DB
}

func NewSearchHistoryStore(db *sql.DB) *SearchHistoryStore {
	return &SearchHistoryStore{db: db}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (s *SearchHistoryStore) Record(ctx context.Context, h models.SearchHistory) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history
			(user_id, query, search_type, language, location, property_type, features, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		h.UserID, h.Query, h.SearchType, h.Language,
		nullable(h.Location), nullable(h.PropertyType), pq.Array(h.Features))
	if err != nil {
		return fmt.Errorf("record search history: %w", err)
	}
	return nil
}
