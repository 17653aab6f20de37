package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/validation"
)

// DecodeValid decodes the body into dst and applies its validate tags.
func DecodeValid(r *http.Request, dst interface{}) error {
	if err := DecodeJSON(r, dst); err != nil {
		return err
	}
	if result := validation.Struct(dst); !result.Valid {
		return apperrors.NewInvalidRequestError(result.Summary())
	}
	return nil
}

// DecodeSchema checks the raw body against schema before decoding it into
// dst. An empty body is validated as {}.
func DecodeSchema(r *http.Request, schema *validation.Schema, dst interface{}) error {
	raw := []byte("{}")
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return apperrors.NewInvalidRequestError("unreadable request body")
		}
		if len(bytes.TrimSpace(body)) > 0 {
			raw = body
		}
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return apperrors.NewInvalidRequestError("invalid JSON body")
	}
	result, err := schema.Validate(doc)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return apperrors.NewInvalidRequestError(result.Summary())
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.NewInvalidRequestError("invalid JSON body")
	}
	return nil
}
