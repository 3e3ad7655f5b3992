package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/infrastructure/http/response"
)

// unencodable fails during JSON encoding.
type unencodable struct{}

func (unencodable) MarshalJSON() ([]byte, error) {
	return nil, errors.New("boom")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOK_EncodingFailure_Returns500WithErrorJSON(t *testing.T) {
	w := httptest.NewRecorder()
	response.OK(w, unencodable{})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	body := decodeError(t, w)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "failed to encode response", body.Error.Message)
}

func TestCreated_Success(t *testing.T) {
	w := httptest.NewRecorder()
	response.Created(w, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"abc"}`, w.Body.String())
}

func TestValidationError_Details(t *testing.T) {
	w := httptest.NewRecorder()
	response.ValidationError(w, "email", "invalid format")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	require.Len(t, body.Error.Details, 1)
	assert.Equal(t, response.ErrorField{Field: "email", Issue: "invalid format"}, body.Error.Details[0])
}

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"task not found", domain.ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND", ""},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrUserNotFound), http.StatusNotFound, "NOT_FOUND", ""},
		{"not owner", domain.ErrNotTaskOwner, http.StatusForbidden, "FORBIDDEN", ""},
		{"unapproved helper", domain.ErrHelperNotApproved, http.StatusForbidden, "FORBIDDEN", ""},
		{"rating out of range", domain.ErrInvalidRating, http.StatusBadRequest, "VALIDATION_ERROR", "rating"},
		{"bad category", domain.ErrInvalidCategory, http.StatusBadRequest, "VALIDATION_ERROR", "category"},
		{"double accept", domain.ErrTaskNotPending, http.StatusConflict, "CONFLICT", ""},
		{"version conflict", domain.ErrVersionConflict, http.StatusConflict, "CONFLICT", ""},
		{"offline helper", domain.ErrHelperOffline, http.StatusUnprocessableEntity, "INVALID_STATE", ""},
		{"illegal transition", domain.ErrIllegalTransition, http.StatusUnprocessableEntity, "INVALID_STATE", ""},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", ""},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			response.FromDomainError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantField != "" {
				require.Len(t, body.Error.Details, 1)
				assert.Equal(t, tt.wantField, body.Error.Details[0].Field)
			}
		})
	}
}

func TestFromDomainError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	response.FromDomainError(w, r, errors.New("password=hunter2"))

	assert.NotContains(t, w.Body.String(), "hunter2")
}
