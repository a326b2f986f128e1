package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func superAdminGet(env *testEnv, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = "app.hospverse.com"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	return w
}

func TestRequireRole_MissingHeader(t *testing.T) {
	env := newTestEnv(t)

	w := superAdminGet(env, "/api/super-admin/clients", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Missing or invalid authorization header", body["error"])
}

func TestRequireRole_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	w := superAdminGet(env, "/api/super-admin/clients", "not-a-real-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestRequireRole_WrongRole(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "receptionist")

	w := superAdminGet(env, "/api/super-admin/clients", token)
	require.Equal(t, http.StatusForbidden, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Unauthorized - Super Admin access required", body["error"])
}

func TestRequireRole_CachesVerifiedIdentity(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	w := superAdminGet(env, "/api/super-admin/clients", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, env.auth.getUserHits)

	// Second call resolves via the token cache without a provider trip.
	w = superAdminGet(env, "/api/super-admin/clients", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.auth.getUserHits)
	assert.Len(t, env.kv.data, 1)
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Super Admin", roleLabel("super_admin"))
	assert.Equal(t, "Admin", roleLabel("admin"))
}
