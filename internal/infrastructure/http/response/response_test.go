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

	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/infrastructure/http/response"
)

// unencodableType simulates a type that fails during JSON encoding.
type unencodableType struct {
	BadField chan int `json:"bad_field"`
}

func (u unencodableType) MarshalJSON() ([]byte, error) {
	_, err := json.Marshal(u.BadField)
	return nil, err
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestOK_EncodingFailure_Returns500WithErrorJSON(t *testing.T) {
	for name, send := range map[string]func(http.ResponseWriter, any){
		"OK":      response.OK,
		"Created": response.Created,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			send(w, unencodableType{})

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
			assert.Equal(t, "failed to encode response", body.Error.Message)
		})
	}
}

func TestOK_Success_ReturnsValidJSON(t *testing.T) {
	w := httptest.NewRecorder()
	response.OK(w, map[string]any{"id": "123", "items": []string{"a"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"123","items":["a"]}`, w.Body.String())
}

func TestCreated_Success_ReturnsValidJSON(t *testing.T) {
	w := httptest.NewRecorder()
	response.Created(w, map[string]string{"id": "new-resource-123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"new-resource-123"}`, w.Body.String())
}

func TestValidationError_IncludesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	response.ValidationError(w, "title", "required field missing")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	require.Len(t, body.Error.Details, 1)
	assert.Equal(t, response.ErrorField{Field: "title", Issue: "required field missing"}, body.Error.Details[0])
}

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrTitleRequired, http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("%w: tomorrow-ish", domain.ErrInvalidDueDate), http.StatusBadRequest, "VALIDATION_ERROR"},
		{domain.ErrInvalidView, http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("%w: abc", domain.ErrTaskNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrTaskCompleted, http.StatusConflict, "CONFLICT"},
		{domain.ErrTaskNotCompleted, http.StatusConflict, "CONFLICT"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			response.FromDomainError(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
		})
	}
}

func TestInternalError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	response.InternalError(w, r, errors.New("password=hunter2"))

	assert.NotContains(t, w.Body.String(), "hunter2")
}
