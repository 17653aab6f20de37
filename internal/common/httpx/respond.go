// Package httpx holds the HTTP plumbing shared by every route: JSON
// encoding, request identity and middleware.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "realestate-marketplace/internal/common/errors"
)

const maxBodyBytes = 1 << 20

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst
// untouched; malformed JSON is an invalid request.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.NewInvalidRequestError("invalid JSON body")
	}
	return nil
}

// QueryInt parses an integer query parameter, returning def when absent.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewInvalidRequestError(key + " must be an integer")
	}
	return n, nil
}

// QueryFloat parses an optional numeric query parameter.
func QueryFloat(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(key + " must be a number")
	}
	return &f, nil
}
