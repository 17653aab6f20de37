package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"realestate-marketplace/internal/common/database"
	"realestate-marketplace/internal/models"
)

const userColumns = "id, COALESCE(email, ''), COALESCE(full_name, ''), COALESCE(name, ''), COALESCE(is_admin, false), created_at"

var usersTable = catalogTable{name: "users", columns: userColumns}

var userWritable = columnSet{
	writable: map[string]bool{"email": true, "full_name": true, "name": true, "avatar_url": true, "image": true},
}

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Name, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

// IsAdmin reports false for unknown users.
func (s *UserStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(is_admin, false) FROM users WHERE id = $1`, userID).Scan(&isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check admin role: %w", err)
	}
	return isAdmin, nil
}

func (s *UserStore) Get(ctx context.Context, userID string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListPage searches name, email and full name.
func (s *UserStore) ListPage(ctx context.Context, text string, page, limit int) ([]models.User, int, error) {
	q := &query{}
	if text != "" {
		ph := q.arg(ilike(text))
		q.where("(name ILIKE " + ph + " OR email ILIKE " + ph + " OR full_name ILIKE " + ph + ")")
	}
	return queryPage(ctx, s.db, usersTable, q, page, limit, scanUser)
}

func (s *UserStore) Update(ctx context.Context, userID string, data map[string]interface{}) (*models.User, error) {
	stmt, args, err := userWritable.updateSQL("users", userColumns, userID, data, true)
	if err != nil {
		return nil, err
	}
	u, err := mutate(ctx, s.db, scanUser, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) Delete(ctx context.Context, userID string) error {
	return deleteByID(ctx, s.db, "users", userID)
}

// ToggleAdmin flips the admin flag and returns the updated user.
func (s *UserStore) ToggleAdmin(ctx context.Context, userID string) (*models.User, error) {
	u, err := mutate(ctx, s.db, scanUser,
		`UPDATE users SET is_admin = NOT COALESCE(is_admin, false), updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		[]interface{}{userID})
	if err != nil {
		return nil, fmt.Errorf("toggle admin: %w", err)
	}
	return &u, nil
}

// AdminCache answers role checks from Redis, falling back to Postgres.
type AdminCache struct {
	users *UserStore
	rdb   redis.Cmdable
	ttl   time.Duration
}

func NewAdminCache(users *UserStore, rdb redis.Cmdable, ttl time.Duration) *AdminCache {
	return &AdminCache{users: users, rdb: rdb, ttl: ttl}
}

func adminCacheKey(userID string) string {
	return "user:admin:" + userID
}

func (c *AdminCache) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var cached bool
	if database.CacheGet(ctx, c.rdb, adminCacheKey(userID), &cached) {
		return cached, nil
	}
	isAdmin, err := c.users.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	_ = database.CacheSet(ctx, c.rdb, adminCacheKey(userID), isAdmin, c.ttl)
	return isAdmin, nil
}

func (c *AdminCache) Invalidate(ctx context.Context, userID string) error {
	return database.CacheDel(ctx, c.rdb, adminCacheKey(userID))
}
