package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/ranking"
)

const propertyColumns = "id, title, price, price_numeric, location, property_type, beds, baths, area, image, features, created_at, updated_at"

var propertyTable = catalogTable{
	name:     "properties",
	columns:  propertyColumns,
	location: "location",
	typ:      "property_type",
	beds:     "beds",
	baths:    "baths",
}

var propertyWritable = columnSet{
	writable: map[string]bool{
		"title": true, "price": true, "price_numeric": true, "location": true,
		"property_type": true, "beds": true, "baths": true, "area": true,
		"image": true, "features": true,
	},
	arrays: map[string]bool{"features": true},
}

type PropertyStore struct {
	db *sql.DB
}

func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

func scanProperty(row scanner) (models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.Title, &p.Price, &p.PriceNumeric,
		&p.Location, &p.PropertyType, &p.Beds, &p.Baths,
		&p.Area, &p.Image, pq.Array(&p.Features),
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Find implements ranking.Catalog.
func (s *PropertyStore) Find(ctx context.Context, f ranking.Filter) ([]models.Property, error) {
	stmt, args := propertyTable.findSQL(f)
	items, err := queryRows(ctx, s.db, scanProperty, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("find properties: %w", err)
	}
	return items, nil
}

// FindByIDs implements ranking.Catalog.
func (s *PropertyStore) FindByIDs(ctx context.Context, ids []string) ([]models.Property, error) {
	if len(ids) == 0 {
		return []models.Property{}, nil
	}
	stmt, args := propertyTable.byIDsSQL(ids)
	items, err := queryRows(ctx, s.db, scanProperty, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("find properties by id: %w", err)
	}
	return items, nil
}

// PropertyQuery is the browse and search filter. Zero values are ignored.
type PropertyQuery struct {
	Text         string
	Location     string
	PropertyType string
	Features     []string
	AnyFeature   bool // match rows carrying any of Features instead of all
	MinPrice     *float64
	MaxPrice     *float64
	MinBeds      *int
	Limit        int
}

func (pf PropertyQuery) build() *query {
	q := &query{}
	if pf.Text != "" {
		ph := q.arg(ilike(pf.Text))
		q.where("(title ILIKE " + ph + " OR location ILIKE " + ph + ")")
	}
	if pf.Location != "" {
		q.where("location ILIKE " + q.arg(ilike(pf.Location)))
	}
	if pf.PropertyType != "" {
		q.where("property_type = " + q.arg(pf.PropertyType))
	}
	if len(pf.Features) > 0 {
		op := " @> "
		if pf.AnyFeature {
			op = " && "
		}
		q.where("features" + op + q.arg(pq.Array(pf.Features)))
	}
	if pf.MinPrice != nil {
		q.where("price_numeric >= " + q.arg(*pf.MinPrice))
	}
	if pf.MaxPrice != nil {
		q.where("price_numeric <= " + q.arg(*pf.MaxPrice))
	}
	if pf.MinBeds != nil {
		q.where("beds >= " + q.arg(*pf.MinBeds))
	}
	return q
}

// Search lists properties matching pf, newest first.
func (s *PropertyStore) Search(ctx context.Context, pf PropertyQuery) ([]models.Property, error) {
	q := pf.build()
	stmt := "SELECT " + propertyColumns + " FROM properties" + q.whereSQL() + " ORDER BY created_at DESC NULLS LAST, id"
	if pf.Limit > 0 {
		stmt += " LIMIT " + q.arg(pf.Limit)
	}
	items, err := queryRows(ctx, s.db, scanProperty, stmt, q.args...)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	return items, nil
}

// ListPage returns one admin page of properties matching pf, newest first.
// pf.Limit is ignored in favour of limit.
func (s *PropertyStore) ListPage(ctx context.Context, pf PropertyQuery, page, limit int) ([]models.Property, int, error) {
	return queryPage(ctx, s.db, propertyTable, pf.build(), page, limit, scanProperty)
}

func (s *PropertyStore) Get(ctx context.Context, id string) (*models.Property, error) {
	p, err := scanProperty(s.db.QueryRowContext(ctx, "SELECT "+propertyColumns+" FROM properties WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	return &p, nil
}

func (s *PropertyStore) Create(ctx context.Context, data map[string]interface{}) (*models.Property, error) {
	stmt, args, err := propertyWritable.insertSQL("properties", propertyColumns, derivePriceNumeric(data))
	if err != nil {
		return nil, err
	}
	p, err := mutate(ctx, s.db, scanProperty, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	return &p, nil
}

func (s *PropertyStore) Update(ctx context.Context, id string, data map[string]interface{}) (*models.Property, error) {
	stmt, args, err := propertyWritable.updateSQL("properties", propertyColumns, id, derivePriceNumeric(data), true)
	if err != nil {
		return nil, err
	}
	p, err := mutate(ctx, s.db, scanProperty, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}
	return &p, nil
}

func (s *PropertyStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "properties", id)
}

// ForEach streams every property to fn.
func (s *PropertyStore) ForEach(ctx context.Context, fn func(models.Property) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT "+propertyColumns+" FROM properties ORDER BY id")
	if err != nil {
		return fmt.Errorf("scan properties: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return rows.Err()
}
