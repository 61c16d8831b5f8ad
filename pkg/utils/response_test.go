package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "tarsier/pkg/errors"
)

func TestResolveError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"overlap", fmt.Errorf("reserve: %w", apperrors.ErrOverlap), http.StatusBadRequest, "overlapped"},
		{"past start", apperrors.ErrPastStart, http.StatusBadRequest, "invalid start date"},
		{"validation", apperrors.NewValidationError("equipId", "%q is required", "equipId"), http.StatusBadRequest, `"equipId" is required`},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "record not found"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "Not allowed"},
		{"unauthorized", apperrors.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{"storage hides details", apperrors.NewStorageError("insert booking", errors.New("connection refused")), http.StatusInternalServerError, "Unexpected error occured"},
		{"http error", apperrors.NewBadRequestError("bad date"), http.StatusBadRequest, "bad date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, message := ResolveError(tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.message, message)
		})
	}
}

func TestErrorResponse_WritesEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/bookings", nil), rec)

	require.NoError(t, ErrorResponse(c, apperrors.ErrOverlap, zap.NewNop()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body HttpResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Status)
	assert.Equal(t, "overlapped", body.Message)
}

func TestSuccessResponse_WithTotal(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, SuccessResponse(c, []int{1, 2}, "ok", http.StatusOK, 10))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["status"])
	assert.Equal(t, float64(10), body["total"])
}
