package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tarsier/pkg/service"
	"tarsier/pkg/utils"
)

func newProtected(t *testing.T) (*echo.Echo, service.JWTService) {
	t.Helper()
	jwtSvc := service.NewJWTService("secret", time.Hour)
	mw := NewAuthMiddleware(jwtSvc, "tarsierToken", zap.NewNop())

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, err := utils.GetUserIDFromCtx(c.Request().Context())
		require.NoError(t, err)
		return c.JSON(http.StatusOK, map[string]uint64{"id": id})
	}, mw.Auth)
	return e, jwtSvc
}

func TestAuth_Cookie(t *testing.T) {
	e, jwtSvc := newProtected(t)
	token, err := jwtSvc.GenerateToken(5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "tarsierToken", Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":5}`, rec.Body.String())
}

func TestAuth_BearerHeader(t *testing.T) {
	e, jwtSvc := newProtected(t)
	token, err := jwtSvc.GenerateToken(9)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingOrInvalid(t *testing.T) {
	e, _ := newProtected(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "tarsierToken", Value: "garbage"})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
