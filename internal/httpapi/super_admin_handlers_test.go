package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospverse-api/internal/domain"
)

func superAdminDo(t *testing.T, env *testEnv, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Host = "app.hospverse.com"
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	return w
}

func TestToggleModule_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	w := superAdminDo(t, env, http.MethodPatch, "/api/super-admin/clients/"+env.client.ID+"/modules", token,
		map[string]any{"module": "billing", "enabled": false})
	require.Equal(t, http.StatusOK, w.Code)
	client := decodeBody[domain.Client](t, w)
	assert.NotContains(t, client.ModulesEnabled, "billing")

	w = superAdminDo(t, env, http.MethodPatch, "/api/super-admin/clients/"+env.client.ID+"/modules", token,
		map[string]any{"module": "billing", "enabled": true})
	require.Equal(t, http.StatusOK, w.Code)
	client = decodeBody[domain.Client](t, w)
	assert.Contains(t, client.ModulesEnabled, "billing")
}

func TestToggleModule_RequiresName(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	w := superAdminDo(t, env, http.MethodPatch, "/api/super-admin/clients/"+env.client.ID+"/modules", token,
		map[string]any{"enabled": true})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Module name is required", body["error"])
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	w := superAdminDo(t, env, http.MethodPatch, "/api/super-admin/clients/"+env.client.ID+"/status", token,
		map[string]any{"status": "suspended"})
	require.Equal(t, http.StatusOK, w.Code)
	client := decodeBody[domain.Client](t, w)
	assert.Equal(t, "suspended", client.Status)

	w = superAdminDo(t, env, http.MethodPatch, "/api/super-admin/clients/"+env.client.ID+"/status", token,
		map[string]any{"status": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Status is required", body["error"])
}

func TestCreateClient_WithBranches(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	w := superAdminDo(t, env, http.MethodPost, "/api/super-admin/clients", token, map[string]any{
		"name":      "Lumina Skin",
		"subdomain": "lumina",
		"plan":      "basic",
		"status":    "trial",
		"branches": []map[string]any{
			{"name": "Lumina Indiranagar", "city": "Bengaluru"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[domain.Client](t, w)
	assert.NotEmpty(t, created.ExpiresAt)

	branches, err := env.repos.Clients.ListBranches(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, created.ID, branches[0].ClientID)
}

func TestTicketMessages_ThreadGrows(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	ticket, err := env.repos.Support.CreateTicket(context.Background(), &domain.SupportTicket{
		ClientID:   env.client.ID,
		ClientName: env.client.Name,
		Subject:    "Photo uploads failing",
		Status:     "open",
		Priority:   "high",
	})
	require.NoError(t, err)

	w := superAdminDo(t, env, http.MethodPost, "/api/super-admin/support/"+ticket.ID+"/messages", token,
		map[string]any{"message": "We are looking into it", "sender": "support", "sender_name": "Platform Support"})
	require.Equal(t, http.StatusOK, w.Code)

	thread := decodeBody[struct {
		domain.SupportTicket
		Messages []domain.TicketMessage `json:"messages"`
	}](t, w)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, "support", thread.Messages[0].Sender)
	assert.Equal(t, thread.Messages[0].Timestamp, thread.UpdatedAt)
}

func TestTicketMessage_RequiredFields(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	w := superAdminDo(t, env, http.MethodPost, "/api/super-admin/support/tk-1/messages", token,
		map[string]any{"message": "hello"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Message, sender, and sender name are required", body["error"])
}

func TestSystemLogs_TypeFilter(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	logs := []*domain.SystemLog{
		{ClientID: env.client.ID, Timestamp: "2026-08-29T09:00:00Z", Type: "auth", Action: "login"},
		{ClientID: env.client.ID, Timestamp: "2026-08-29T09:05:00Z", Type: "error", Action: "db timeout"},
	}
	for _, l := range logs {
		require.NoError(t, env.repos.Logs.CreateSystemLog(context.Background(), l))
	}

	w := superAdminDo(t, env, http.MethodGet, "/api/super-admin/logs?type=error", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[[]domain.SystemLog](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "db timeout", got[0].Action)
}

func TestPlatformStats(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "super_admin")

	_, err := env.repos.Clients.CreateClient(context.Background(), &domain.Client{
		Name: "Lumina Skin", Subdomain: "lumina", Plan: "basic", Status: "trial",
	})
	require.NoError(t, err)
	_, err = env.repos.Clients.CreateClient(context.Background(), &domain.Client{
		Name: "Derma One", Subdomain: "dermaone", Plan: "enterprise", Status: "inactive",
	})
	require.NoError(t, err)

	w := superAdminDo(t, env, http.MethodGet, "/api/super-admin/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[map[string]any](t, w)

	// The seeded clinic is active professional; trial counts toward both
	// subscriptions and the inactive/trial bucket.
	assert.Equal(t, float64(3), stats["totalClinics"])
	assert.Equal(t, float64(2), stats["activeSubscriptions"])
	assert.Equal(t, float64(2), stats["inactiveTrialClinics"])
	assert.Equal(t, float64(planPriceProfessional), stats["revenueThisMonth"])
	assert.Equal(t, float64(0), stats["openSupportTickets"])
}
