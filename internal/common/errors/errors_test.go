package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warns  []map[string]interface{}
	errors []map[string]interface{}
}

func (l *recordingLogger) Warn(_ string, fields map[string]interface{}) {
	l.warns = append(l.warns, fields)
}

func (l *recordingLogger) Error(_ string, fields map[string]interface{}) {
	l.errors = append(l.errors, fields)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeUpstreamReadFailure, http.StatusInternalServerError},
		{ErrCodeDatabaseWriteFailed, http.StatusInternalServerError},
		{ErrCodeSearchUnavailable, http.StatusServiceUnavailable},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestUpstreamReadFailure_HidesDetails(t *testing.T) {
	cause := errors.New("pq: relation \"properties\" does not exist")
	err := fmt.Errorf("popularity stage: %w", NewUpstreamReadFailureError("catalog.find", cause))

	log := &recordingLogger{}
	rec := httptest.NewRecorder()
	NewErrorHandler(log).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/properties", nil), err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Error)
	assert.NotContains(t, rec.Body.String(), "relation")

	require.Len(t, log.errors, 1)
	assert.Contains(t, log.errors[0]["details"], "does not exist")
	assert.ErrorIs(t, err, cause)
}

func TestHandle_ClientErrorsLogAsWarn(t *testing.T) {
	log := &recordingLogger{}
	rec := httptest.NewRecorder()
	NewErrorHandler(log).Handle(rec, httptest.NewRequest(http.MethodPost, "/", nil), NewInvalidRequestError("User ID is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"User ID is required"}`, rec.Body.String())
	assert.Len(t, log.warns, 1)
	assert.Empty(t, log.errors)
}

func TestHandle_PlainErrorBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	NewErrorHandler(nil).Handle(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("unexpected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestHasCodeAndCategory(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewForbiddenError("not an admin"))
	assert.True(t, HasCode(err, ErrCodeForbidden))
	assert.False(t, HasCode(err, ErrCodeUnauthorized))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeForbidden))

	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeUpstreamReadFailure))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeForbidden))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidRequest))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
