package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"realestate-marketplace/internal/ranking"
)

// catalogTable describes how a ranking.Filter maps onto a table. An empty
// column name means the table has no such attribute.
type catalogTable struct {
	name     string
	columns  string
	location string
	typ      string
	beds     string
	baths    string
}

// findSQL renders f. Rows come back in a stable order so repeated calls with
// the same filter agree.
func (t catalogTable) findSQL(f ranking.Filter) (string, []interface{}) {
	q := &query{}

	if f.MinPrice != nil {
		q.where("price_numeric >= " + q.arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		q.where("price_numeric <= " + q.arg(*f.MaxPrice))
	}
	if f.MinBeds != nil && t.beds != "" {
		q.where(t.beds + " >= " + q.arg(*f.MinBeds))
	}
	if f.MinBaths != nil && t.baths != "" {
		q.where(t.baths + " >= " + q.arg(*f.MinBaths))
	}

	var locClause, typeClause string
	if len(f.Locations) > 0 && t.location != "" {
		locClause = t.location + " = ANY(" + q.arg(pq.Array(f.Locations)) + ")"
	}
	if len(f.Types) > 0 && t.typ != "" {
		typeClause = t.typ + " = ANY(" + q.arg(pq.Array(f.Types)) + ")"
	}
	switch {
	case f.MatchAny && locClause != "" && typeClause != "":
		q.where("(" + locClause + " OR " + typeClause + ")")
	default:
		if locClause != "" {
			q.where(locClause)
		}
		if typeClause != "" {
			q.where(typeClause)
		}
	}

	if len(f.ExcludeIDs) > 0 {
		q.where("id <> ALL(" + q.arg(pq.Array(f.ExcludeIDs)) + ")")
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s%s", t.columns, t.name, q.whereSQL())
	switch f.OrderBy {
	case ranking.OrderPriceDesc:
		stmt += " ORDER BY price_numeric DESC NULLS LAST, id"
	default:
		stmt += " ORDER BY created_at DESC NULLS LAST, id"
	}
	if f.Limit > 0 {
		stmt += " LIMIT " + q.arg(f.Limit)
	}
	return stmt, q.args
}

func (t catalogTable) byIDsSQL(ids []string) (string, []interface{}) {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = ANY($1)", t.columns, t.name),
		[]interface{}{pq.Array(ids)}
}

// pageSQL returns the count and page statements for an admin listing.
func (t catalogTable) pageSQL(q *query, page, limit int) (string, string, []interface{}) {
	where := q.whereSQL()
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.name, where)
	offset := (page - 1) * limit
	pageSQL := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at DESC NULLS LAST, id LIMIT %s OFFSET %s",
		t.columns, t.name, where, strconv.Itoa(limit), strconv.Itoa(offset))
	return countSQL, pageSQL, q.args
}

func queryRows[T any](ctx context.Context, db *sql.DB, scan func(scanner) (T, error), stmt string, args ...interface{}) ([]T, error) {
	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func queryPage[T any](ctx context.Context, db *sql.DB, t catalogTable, q *query, page, limit int, scan func(scanner) (T, error)) ([]T, int, error) {
	countSQL, pageSQL, args := t.pageSQL(q, page, limit)

	var total int
	if err := db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	items, err := queryRows(ctx, db, scan, pageSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", t.name, err)
	}
	return items, total, nil
}

// derivePriceNumeric fills price_numeric from a display price in data unless
// the caller supplied one.
func derivePriceNumeric(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	if _, set := out["price_numeric"]; set {
		return out
	}
	if price, ok := out["price"].(string); ok {
		if n, ok := PriceNumeric(price); ok {
			out["price_numeric"] = n
		}
	}
	return out
}

func mutate[T any](ctx context.Context, db *sql.DB, scan func(scanner) (T, error), stmt string, args []interface{}) (T, error) {
	item, err := scan(db.QueryRowContext(ctx, stmt, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, ErrNotFound
	}
	return item, err
}

func deleteByID(ctx context.Context, db *sql.DB, table, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
