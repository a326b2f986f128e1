package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantResolution_KnownSubdomain(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/tenant", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, "skinova", body["subdomain"])
	assert.Equal(t, "Skinova Clinic", body["name"])
}

func TestTenantResolution_UnknownSubdomain(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tenant", nil)
	req.Host = "nosuchclinic.hospverse.com"
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Tenant not found", body["error"])
}

func TestTenantResolution_RecordsUsage(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodGet, "/api/tenant", nil)
	env.do(t, http.MethodGet, "/api/inventory/stats", nil)

	client, err := env.repos.Clients.GetClient(context.Background(), env.client.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, client.APIUsage)

	logs, err := env.repos.Logs.ListUsageLogs(context.Background(), env.client.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, http.MethodGet, logs[0].Method)
}

func TestTenantResolution_SuperAdminPathSkipsTenant(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	req := httptest.NewRequest(http.MethodGet, "/api/super-admin/clients", nil)
	req.Host = "admin.hospverse.com" // not a clinic subdomain
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestModuleGate_DisabledModule(t *testing.T) {
	env := newTestEnv(t)
	env.client.ModulesEnabled = []string{"dashboard", "reception"}
	require.NoError(t, env.repos.Clients.UpdateClient(context.Background(), env.client))

	w := env.do(t, http.MethodGet, "/api/billing/invoices", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Billing module is not enabled for this tenant", body["error"])
}
