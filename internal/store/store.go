// Package store holds the Postgres repositories behind every route. Catalog
// stores satisfy ranking.Catalog; the signal adapters satisfy ranking.Signals.
package store

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrNoFields     = errors.New("no updatable fields supplied")
	ErrUnknownField = errors.New("unknown field")
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// query accumulates WHERE clauses and positional arguments.
type query struct {
	clauses []string
	args    []interface{}
}

// arg appends v and returns its placeholder.
func (q *query) arg(v interface{}) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *query) where(clause string) {
	q.clauses = append(q.clauses, clause)
}

func (q *query) whereSQL() string {
	if len(q.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.clauses, " AND ")
}

// ilike wraps s for a case-insensitive substring match.
func ilike(s string) string {
	return "%" + s + "%"
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// PriceNumeric derives the sortable price from a display price such as
// "EGP 2,500,000". It reports false when no digits remain.
func PriceNumeric(price string) (float64, bool) {
	digits := nonDigits.ReplaceAllString(price, "")
	if digits == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// columnSet lists the writable columns of a table. Array columns are sent
// through pq.Array.
type columnSet struct {
	writable map[string]bool
	arrays   map[string]bool
}

// assignments turns a decoded JSON object into sorted column/value pairs,
// rejecting unknown keys.
func (c columnSet) assignments(data map[string]interface{}) ([]string, []interface{}, error) {
	cols := make([]string, 0, len(data))
	for k := range data {
		if !c.writable[k] {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)

	vals := make([]interface{}, len(cols))
	for i, col := range cols {
		v := data[col]
		if c.arrays[col] {
			v = pq.Array(toStrings(v))
		}
		vals[i] = v
	}
	return cols, vals, nil
}

func toStrings(v interface{}) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(t)}
	}
}

// insertSQL builds an INSERT ... RETURNING statement from data.
func (c columnSet) insertSQL(table, returning string, data map[string]interface{}) (string, []interface{}, error) {
	cols, vals, err := c.assignments(data)
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, ErrNoFields
	}
	q := &query{}
	placeholders := make([]string, len(vals))
	for i, v := range vals {
		placeholders[i] = q.arg(v)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), returning)
	return stmt, q.args, nil
}

// updateSQL builds an UPDATE ... WHERE id = $n RETURNING statement from data.
// updated_at is bumped when touchUpdatedAt is set.
func (c columnSet) updateSQL(table, returning, id string, data map[string]interface{}, touchUpdatedAt bool) (string, []interface{}, error) {
	cols, vals, err := c.assignments(data)
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, ErrNoFields
	}
	q := &query{}
	sets := make([]string, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, col+" = "+q.arg(vals[i]))
	}
	if touchUpdatedAt {
		sets = append(sets, "updated_at = NOW()")
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s RETURNING %s",
		table, strings.Join(sets, ", "), q.arg(id), returning)
	return stmt, q.args, nil
}
