package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		ClientID string `json:"client_id"`
		Client   *struct {
			Name      string `json:"name"`
			Subdomain string `json:"subdomain"`
		} `json:"client"`
	} `json:"user"`
}

func TestLogin_JoinsProfileAndClinic(t *testing.T) {
	env := newTestEnv(t)
	env.grantRole(t, "receptionist")

	w := env.do(t, http.MethodPost, "/api/login", map[string]any{
		"email":    "receptionist@skinova.test",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[loginResponse](t, w)
	assert.Equal(t, "token-receptionist", resp.AccessToken)
	assert.Equal(t, "receptionist", resp.User.Role)
	assert.Equal(t, env.client.ID, resp.User.ClientID)
	require.NotNil(t, resp.User.Client)
	assert.Equal(t, "skinova", resp.User.Client.Subdomain)
}

func TestLogin_BadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.grantRole(t, "receptionist")

	w := env.do(t, http.MethodPost, "/api/login", map[string]any{
		"email":    "receptionist@skinova.test",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestSignup_CreatesProfile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/signup", map[string]any{
		"email":     "meera@skinova.test",
		"password":  "secret",
		"name":      "Meera Pillai",
		"role":      "technician",
		"client_id": env.client.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	profile, err := env.repos.Users.GetProfileByAuthID(context.Background(), "auth-meera@skinova.test")
	require.NoError(t, err)
	assert.Equal(t, "technician", profile.Role)
	assert.True(t, profile.IsActive)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "doctor")

	w := env.do(t, http.MethodGet, "/api/me", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[struct {
		User struct {
			Role  string `json:"role"`
			Email string `json:"email"`
		} `json:"user"`
	}](t, w)
	assert.Equal(t, "doctor", resp.User.Role)
	assert.Equal(t, "doctor@skinova.test", resp.User.Email)
}

func TestLogout_DropsCachedIdentity(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	// Prime the identity cache through a role-gated route.
	w := superAdminGet(env, "/api/super-admin/clients", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.kv.data, 1)

	w = env.do(t, http.MethodPost, "/api/logout", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.kv.data)
}
