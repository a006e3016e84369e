package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glowshop/backend/internal/catalog"
	"github.com/glowshop/backend/internal/config"
	"github.com/glowshop/backend/internal/hash"
	"github.com/glowshop/backend/internal/models"
	"github.com/glowshop/backend/internal/service/checkout"
	"github.com/glowshop/backend/internal/storage"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	A *AuthHandler
	P *ProductHandler
	O *OrderHandler
	H *HeroHandler
	M *ContactHandler
	U *UserHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	jwtSecret := []byte("test_jwt_secret")
	refreshSecret := []byte("test_refresh_secret")

	store := storage.NewDiskStore(t.TempDir(), "http://localhost:8080")
	picker := catalog.NewPicker(rand.New(rand.NewSource(1)))

	env := &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
	}

	env.A = &AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	env.P = &ProductHandler{DB: db, Store: store, Picker: picker}
	env.O = &OrderHandler{DB: db, Checkout: checkout.NewService(db)}
	env.H = &HeroHandler{DB: db, Store: store}
	env.M = &ContactHandler{DB: db}
	env.U = &UserHandler{DB: db}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

var userSeq atomic.Uint64

func createUser(t *testing.T, env *testEnv, role string) models.User {
	t.Helper()

	passwordHash, err := hash.HashPassword("test_password")
	require.NoError(t, err)

	user := models.User{
		Name:         "Test User",
		Email:        fmt.Sprintf("%s%d@example.com", role, userSeq.Add(1)),
		PasswordHash: passwordHash,
		Role:         role,
	}
	require.NoError(t, env.DB.Create(&user).Error)
	return user
}

func asUser(c echo.Context, user models.User) {
	c.Set("userID", user.ID)
	c.Set("role", user.Role)
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}
