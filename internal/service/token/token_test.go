package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glowshop/backend/internal/models"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))

	return &TokenService{
		DB:            db,
		JWTSecret:     []byte("access_secret"),
		RefreshSecret: []byte("refresh_secret"),
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	raw, err := SignAccessToken(42, models.RoleAdmin, svc.JWTSecret)
	require.NoError(t, err)

	parsed, err := jwt.Parse(raw, func(j *jwt.Token) (interface{}, error) { return svc.JWTSecret, nil })
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, float64(42), claims["sub"])
	require.Equal(t, models.RoleAdmin, claims["role"])
}

func TestRotateToken(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(7, models.RoleCustomer, svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7, models.RoleCustomer))

	newAccess, newRefresh, claims, err := svc.RotateToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, newAccess)
	require.NotEmpty(t, newRefresh)
	require.NotEqual(t, refresh, newRefresh)
	require.Equal(t, float64(7), claims["sub"])

	// The old refresh token is revoked and cannot be used again.
	_, _, _, err = svc.RotateToken(refresh)
	require.Error(t, err)
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	access, err := SignAccessToken(7, models.RoleCustomer, svc.RefreshSecret)
	require.NoError(t, err)

	_, err = ValidateRefresh(access, svc.RefreshSecret, svc.DB)
	require.Error(t, err)
}

func TestAutoRefreshMiddlewareValidAccess(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	access, err := SignAccessToken(9, models.RoleCustomer, svc.JWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := svc.AutoRefreshMiddleware(func(c echo.Context) error {
		called = true
		require.Equal(t, uint(9), c.Get("userID"))
		require.Equal(t, models.RoleCustomer, c.Get("role"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	require.True(t, called)
}

func TestAutoRefreshMiddlewareAdminRejectsCustomer(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	access, err := SignAccessToken(9, models.RoleCustomer, svc.JWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := svc.AutoRefreshMiddlewareAdmin(func(c echo.Context) error {
		t.Fatal("handler must not be called")
		return nil
	})
	err = handler(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestAutoRefreshMiddlewareExpiredAccessRotates(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  float64(9),
		"role": models.RoleCustomer,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	expiredRaw, err := expired.SignedString(svc.JWTSecret)
	require.NoError(t, err)

	refresh, err := SignRefreshToken(9, models.RoleCustomer, svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 9, models.RoleCustomer))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: expiredRaw})
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := svc.AutoRefreshMiddleware(func(c echo.Context) error {
		called = true
		require.Equal(t, uint(9), c.Get("userID"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	require.True(t, called)

	// Rotated cookies were set on the response.
	cookies := rec.Result().Cookies()
	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}
