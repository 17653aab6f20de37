package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"realestate-marketplace/internal/models"
)

const (
	providerColumns = "id, name, COALESCE(specialty, ''), COALESCE(price, ''), rating, reviews, COALESCE(image, '')"
	categoryColumns = "id, title, COALESCE(description, ''), COALESCE(icon, '')"
	bookingColumns  = "id, user_id, provider_id, service_type, booking_date::text, booking_time::text, COALESCE(notes, ''), COALESCE(status, 'pending'), created_at, updated_at"
)

var bookingWritable = columnSet{
	writable: map[string]bool{
		"provider_id": true, "service_type": true, "booking_date": true,
		"booking_time": true, "notes": true, "status": true,
	},
}

var categoryWritable = columnSet{
	writable: map[string]bool{"title": true, "description": true, "icon": true},
}

type MaintenanceStore struct {
	db *sql.DB
}

func NewMaintenanceStore(db *sql.DB) *MaintenanceStore {
	return &MaintenanceStore{db: db}
}

func scanProvider(row scanner) (models.MaintenanceProvider, error) {
	var p models.MaintenanceProvider
	err := row.Scan(&p.ID, &p.Name, &p.Specialty, &p.Price, &p.Rating, &p.Reviews, &p.Image)
	return p, err
}

func scanCategory(row scanner) (models.MaintenanceCategory, error) {
	var c models.MaintenanceCategory
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Icon)
	return c, err
}

func scanBooking(row scanner) (models.MaintenanceBooking, error) {
	var b models.MaintenanceBooking
	err := row.Scan(&b.ID, &b.UserID, &b.ProviderID, &b.ServiceType, &b.BookingDate,
		&b.BookingTime, &b.Notes, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// ListProviders filters on specialty when given.
func (s *MaintenanceStore) ListProviders(ctx context.Context, specialty string) ([]models.MaintenanceProvider, error) {
	q := &query{}
	if specialty != "" {
		q.where("specialty = " + q.arg(specialty))
	}
	stmt := "SELECT " + providerColumns + " FROM maintenance_providers" + q.whereSQL() + " ORDER BY rating DESC NULLS LAST, name"
	providers, err := queryRows(ctx, s.db, scanProvider, stmt, q.args...)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}

func (s *MaintenanceStore) ListCategories(ctx context.Context) ([]models.MaintenanceCategory, error) {
	cats, err := queryRows(ctx, s.db, scanCategory, "SELECT "+categoryColumns+" FROM maintenance_categories ORDER BY title")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// CreateBooking inserts a pending booking.
func (s *MaintenanceStore) CreateBooking(ctx context.Context, b models.MaintenanceBooking) (*models.MaintenanceBooking, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = models.BookingStatusPending
	}
	var notes interface{}
	if b.Notes != "" {
		notes = b.Notes
	}
	out, err := scanBooking(s.db.QueryRowContext(ctx, `
		INSERT INTO maintenance_bookings
			(id, user_id, provider_id, service_type, booking_date, booking_time, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+bookingColumns,
		b.ID, b.UserID, b.ProviderID, b.ServiceType, b.BookingDate, b.BookingTime, notes, b.Status))
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &out, nil
}

type BookingFilter struct {
	ServiceType string
	Status      string
	StartDate   string
	EndDate     string
}

// ListBookings returns one admin page of bookings with the booking user's
// name and email, newest first.
func (s *MaintenanceStore) ListBookings(ctx context.Context, f BookingFilter, page, limit int) ([]models.MaintenanceBooking, int, error) {
	q := &query{}
	if f.ServiceType != "" {
		q.where("b.service_type = " + q.arg(f.ServiceType))
	}
	if f.Status != "" {
		q.where("b.status = " + q.arg(f.Status))
	}
	if f.StartDate != "" {
		q.where("b.booking_date >= " + q.arg(f.StartDate))
	}
	if f.EndDate != "" {
		q.where("b.booking_date <= " + q.arg(f.EndDate))
	}
	where := q.whereSQL()

	var total int
	countSQL := "SELECT COUNT(*) FROM maintenance_bookings b JOIN users u ON u.id = b.user_id" + where
	if err := s.db.QueryRowContext(ctx, countSQL, q.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	stmt := fmt.Sprintf(`
		SELECT b.id, b.user_id, b.provider_id, b.service_type, b.booking_date::text, b.booking_time::text,
		       COALESCE(b.notes, ''), COALESCE(b.status, 'pending'), COALESCE(u.name, ''), COALESCE(u.email, ''),
		       b.created_at, b.updated_at
		FROM maintenance_bookings b
		JOIN users u ON u.id = b.user_id%s
		ORDER BY b.created_at DESC NULLS LAST, b.id
		LIMIT %d OFFSET %d`, where, limit, (page-1)*limit)
	bookings, err := queryRows(ctx, s.db, func(row scanner) (models.MaintenanceBooking, error) {
		var b models.MaintenanceBooking
		err := row.Scan(&b.ID, &b.UserID, &b.ProviderID, &b.ServiceType, &b.BookingDate, &b.BookingTime,
			&b.Notes, &b.Status, &b.UserName, &b.UserEmail, &b.CreatedAt, &b.UpdatedAt)
		return b, err
	}, stmt, q.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, total, nil
}

func (s *MaintenanceStore) UpdateBooking(ctx context.Context, id string, data map[string]interface{}) (*models.MaintenanceBooking, error) {
	stmt, args, err := bookingWritable.updateSQL("maintenance_bookings", bookingColumns, id, data, true)
	if err != nil {
		return nil, err
	}
	b, err := mutate(ctx, s.db, scanBooking, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return &b, nil
}

func (s *MaintenanceStore) DeleteBooking(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "maintenance_bookings", id)
}

func (s *MaintenanceStore) CreateCategory(ctx context.Context, data map[string]interface{}) (*models.MaintenanceCategory, error) {
	stmt, args, err := categoryWritable.insertSQL("maintenance_categories", categoryColumns, data)
	if err != nil {
		return nil, err
	}
	c, err := mutate(ctx, s.db, scanCategory, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

func (s *MaintenanceStore) UpdateCategory(ctx context.Context, id string, data map[string]interface{}) (*models.MaintenanceCategory, error) {
	stmt, args, err := categoryWritable.updateSQL("maintenance_categories", categoryColumns, id, data, false)
	if err != nil {
		return nil, err
	}
	c, err := mutate(ctx, s.db, scanCategory, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &c, nil
}

func (s *MaintenanceStore) DeleteCategory(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "maintenance_categories", id)
}
