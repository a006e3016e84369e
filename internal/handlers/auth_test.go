package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glowshop/backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{
		"name":     "Asha Verma",
		"email":    "asha@example.com",
		"password": "secret123",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", body)
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, models.RoleCustomer, user.Role)
	require.Equal(t, "asha@example.com", user.Email)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/login", body)
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IsAdmin      bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.False(t, resp.IsAdmin)

	cookies := rec.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"email": "dup@example.com", "password": "secret123"}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", body)
	require.NoError(t, env.A.Register(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/register", body)
	err := env.A.Register(c)
	require.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env, models.RoleCustomer)

	body := map[string]string{"email": user.Email, "password": "wrong"}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", body)
	err := env.A.Login(c)
	require.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env, models.RoleCustomer)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/me", nil)
	asUser(c, user)
	require.NoError(t, env.A.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, user.ID, resp.ID)
	require.Equal(t, user.Email, resp.Email)
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env, models.RoleCustomer)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/me", map[string]string{"name": "New Name"})
	asUser(c, user)
	require.NoError(t, env.A.UpdateMe(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "New Name", resp.Name)
}
