package common

import (
	"context"
	"errors"
	"net/http"
	"sort"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/store"
)

const maxPageSize = 200

// Paging reads page and limit from the query string. page defaults to 1 and
// limit to defaultLimit.
func Paging(r *http.Request, defaultLimit int) (int, int, error) {
	page, err := httpx.QueryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err := httpx.QueryInt(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, apperrors.NewInvalidRequestError("page must be at least 1")
	}
	if limit < 1 || limit > maxPageSize {
		return 0, 0, apperrors.NewInvalidRequestError("limit must be between 1 and 200")
	}
	return page, limit, nil
}

// MutationError maps store failures onto client-facing errors.
func MutationError(ctx context.Context, resource, op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NewResourceNotFoundError(resource, op)
	case errors.Is(err, store.ErrUnknownField):
		return apperrors.NewInvalidRequestError(err.Error())
	case errors.Is(err, store.ErrNoFields):
		return apperrors.NewInvalidRequestError(err.Error())
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewQueryTimeoutError(op)
	default:
		return apperrors.NewDatabaseWriteFailedError(op, err)
	}
}

// ReadError maps a failed listing query.
func ReadError(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(op)
	}
	return apperrors.NewUpstreamReadFailureError(op, err)
}

// Keys returns the sorted keys of a decoded JSON object.
func Keys(data map[string]interface{}) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Success is the envelope every admin mutation answers with.
type Success struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func OK(data interface{}) *Success {
	return &Success{Success: true, Data: data}
}
