package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/ranking"
)

const furnitureColumns = "id, title, COALESCE(description, ''), COALESCE(category, ''), price, price_numeric, rating, reviews, COALESCE(image, ''), created_at, updated_at"

var furnitureTable = catalogTable{
	name:    "furniture",
	columns: furnitureColumns,
	typ:     "category",
}

var furnitureWritable = columnSet{
	writable: map[string]bool{
		"title": true, "description": true, "category": true, "price": true,
		"price_numeric": true, "rating": true, "reviews": true, "image": true,
	},
}

type FurnitureStore struct {
	db *sql.DB
}

func NewFurnitureStore(db *sql.DB) *FurnitureStore {
	return &FurnitureStore{db: db}
}

func scanFurniture(row scanner) (models.Furniture, error) {
	var f models.Furniture
	err := row.Scan(
		&f.ID, &f.Title, &f.Description, &f.Category,
		&f.Price, &f.PriceNumeric, &f.Rating, &f.Reviews,
		&f.Image, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

// Find implements ranking.Catalog.
func (s *FurnitureStore) Find(ctx context.Context, f ranking.Filter) ([]models.Furniture, error) {
	stmt, args := furnitureTable.findSQL(f)
	items, err := queryRows(ctx, s.db, scanFurniture, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("find furniture: %w", err)
	}
	return items, nil
}

// FindByIDs implements ranking.Catalog.
func (s *FurnitureStore) FindByIDs(ctx context.Context, ids []string) ([]models.Furniture, error) {
	if len(ids) == 0 {
		return []models.Furniture{}, nil
	}
	stmt, args := furnitureTable.byIDsSQL(ids)
	items, err := queryRows(ctx, s.db, scanFurniture, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("find furniture by id: %w", err)
	}
	return items, nil
}

type FurnitureQuery struct {
	Text     string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
}

func (fq FurnitureQuery) build() *query {
	q := &query{}
	if fq.Text != "" {
		ph := q.arg(ilike(fq.Text))
		q.where("(title ILIKE " + ph + " OR description ILIKE " + ph + ")")
	}
	if fq.Category != "" {
		q.where("category = " + q.arg(fq.Category))
	}
	if fq.MinPrice != nil {
		q.where("price_numeric >= " + q.arg(*fq.MinPrice))
	}
	if fq.MaxPrice != nil {
		q.where("price_numeric <= " + q.arg(*fq.MaxPrice))
	}
	return q
}

func (s *FurnitureStore) Search(ctx context.Context, fq FurnitureQuery) ([]models.Furniture, error) {
	q := fq.build()
	stmt := "SELECT " + furnitureColumns + " FROM furniture" + q.whereSQL() + " ORDER BY created_at DESC NULLS LAST, id"
	if fq.Limit > 0 {
		stmt += " LIMIT " + q.arg(fq.Limit)
	}
	items, err := queryRows(ctx, s.db, scanFurniture, stmt, q.args...)
	if err != nil {
		return nil, fmt.Errorf("search furniture: %w", err)
	}
	return items, nil
}

func (s *FurnitureStore) ListPage(ctx context.Context, fq FurnitureQuery, page, limit int) ([]models.Furniture, int, error) {
	return queryPage(ctx, s.db, furnitureTable, fq.build(), page, limit, scanFurniture)
}

func (s *FurnitureStore) Get(ctx context.Context, id string) (*models.Furniture, error) {
	f, err := scanFurniture(s.db.QueryRowContext(ctx, "SELECT "+furnitureColumns+" FROM furniture WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get furniture: %w", err)
	}
	return &f, nil
}

func (s *FurnitureStore) Create(ctx context.Context, data map[string]interface{}) (*models.Furniture, error) {
	stmt, args, err := furnitureWritable.insertSQL("furniture", furnitureColumns, derivePriceNumeric(data))
	if err != nil {
		return nil, err
	}
	f, err := mutate(ctx, s.db, scanFurniture, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("create furniture: %w", err)
	}
	return &f, nil
}

func (s *FurnitureStore) Update(ctx context.Context, id string, data map[string]interface{}) (*models.Furniture, error) {
	stmt, args, err := furnitureWritable.updateSQL("furniture", furnitureColumns, id, derivePriceNumeric(data), true)
	if err != nil {
		return nil, err
	}
	f, err := mutate(ctx, s.db, scanFurniture, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("update furniture: %w", err)
	}
	return &f, nil
}

func (s *FurnitureStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "furniture", id)
}

func (s *FurnitureStore) ForEach(ctx context.Context, fn func(models.Furniture) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT "+furnitureColumns+" FROM furniture ORDER BY id")
	if err != nil {
		return fmt.Errorf("scan furniture: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		f, err := scanFurniture(rows)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return rows.Err()
}
