package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "employee-system/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseFilterFromQuery(t *testing.T) {
	values, err := url.ParseQuery("search=ann&sort[full_name]=DESC&sort[bad]=sideways&filter[department_id]=1&filter[department_id]=2&limit=900&page=3")
	require.NoError(t, err)

	f := ParseFilterFromQuery(values)
	assert.Equal(t, "ann", f.Search)
	assert.Equal(t, map[string]string{"full_name": "desc"}, f.Sort)
	assert.Equal(t, "1,2", f.Filter["department_id"])
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 2*MaxLimit, f.Offset)
	assert.True(t, f.WithPagination)

	defaults := ParseFilterFromQuery(url.Values{"withPagination": {"false"}})
	assert.Equal(t, DefaultLimit, defaults.Limit)
	assert.Equal(t, 1, defaults.Page)
	assert.False(t, defaults.WithPagination)
}

func render(t *testing.T, target string, fn func(c echo.Context) error) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec)
	require.NoError(t, fn(c))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestSuccessResponsePagination(t *testing.T) {
	code, body := render(t, "/x?withPagination=true&limit=2", func(c echo.Context) error {
		return SuccessResponse(c, []int{1, 2}, "ok", http.StatusOK, 5)
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["status"])
	inner := body["body"].(map[string]interface{})
	pagination := inner["pagination"].(map[string]interface{})
	assert.EqualValues(t, 5, pagination["total_count"])
	assert.EqualValues(t, 3, pagination["total_pages"])

	_, plain := render(t, "/x", func(c echo.Context) error {
		return SuccessResponse(c, []int{1}, "ok", http.StatusOK, 1)
	})
	assert.Equal(t, []interface{}{float64(1)}, plain["body"])
}

func TestErrorResponseMapping(t *testing.T) {
	logger := zap.NewNop()
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", apperrors.NewValidationError("Bad input."), http.StatusBadRequest, "Bad input."},
		{"conflict renders as bad request", apperrors.NewConflictError("Taken."), http.StatusBadRequest, "Taken."},
		{"not found", apperrors.NewNotFoundError("Employee not found."), http.StatusNotFound, "Employee not found."},
		{"forbidden", apperrors.NewForbiddenError("No."), http.StatusForbidden, "No."},
		{"sentinel token", apperrors.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
		{"sentinel not found", apperrors.ErrNotFound, http.StatusNotFound, "record not found"},
		{"wrapped unique violation", fmt.Errorf("email taken: %w", apperrors.ErrConflict), http.StatusBadRequest, "email taken: record already exists"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := render(t, "/x", func(c echo.Context) error {
				return ErrorResponse(c, tt.err, logger)
			})
			assert.Equal(t, tt.code, code)
			assert.Equal(t, false, body["status"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestErrorResponseCarriesDetails(t *testing.T) {
	code, body := render(t, "/x", func(c echo.Context) error {
		return ErrorResponse(c, apperrors.NewInsufficientBalanceError("Insufficient.", 2, 5), zap.NewNop())
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]interface{}{"available": float64(2), "requested": float64(5)}, body["body"])
}

func TestParseIDParam(t *testing.T) {
	e := echo.New()
	for _, raw := range []string{"abc", "0", "-1"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		_, err := ParseIDParam(c, "id")
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), raw)
	}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("12")
	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.NoError(t, ComparePasswords(hash, "s3cret-pass"))
	assert.Error(t, ComparePasswords(hash, "wrong"))
}
