package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospverse-api/internal/domain"
)

func adminDo(t *testing.T, env *testEnv, token, path string) *httptest.ResponseRecorder {
	t.Helper()
	return env.do(t, http.MethodGet, path, nil, "Authorization", "Bearer "+token)
}

func TestAdminMetrics_RevenueIsPaidAmount(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "admin")

	// Overpaid invoice: the dashboard shows money received, not the bill.
	_, err := env.repos.Billing.CreateInvoice(context.Background(), &domain.Invoice{
		ClientID:    env.client.ID,
		PatientName: "Asha Rao",
		TotalAmount: 500,
		PaidAmount:  550,
		Status:      "paid",
		PaidAt:      nowRFC3339(),
	})
	require.NoError(t, err)
	_, err = env.repos.Billing.CreateInvoice(context.Background(), &domain.Invoice{
		ClientID:    env.client.ID,
		PatientName: "Ravi Kumar",
		TotalAmount: 300,
		PaidAmount:  100,
		Status:      "partially-paid",
	})
	require.NoError(t, err)

	w := adminDo(t, env, token, "/api/admin/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	metrics := decodeBody[map[string]any](t, w)
	assert.Equal(t, float64(550), metrics["revenueToday"])
}

func TestAdminRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "receptionist")

	w := adminDo(t, env, token, "/api/admin/metrics")
	require.Equal(t, http.StatusForbidden, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Unauthorized - Admin access required", body["error"])
}

func TestAdminCRMReport_CumulativeFunnel(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "admin")

	for _, status := range []string{"new", "contacted", "consulted", "converted"} {
		_, err := env.repos.Leads.CreateLead(context.Background(), &domain.Lead{
			ClientID: env.client.ID,
			FullName: "Lead " + status,
			Status:   status,
		})
		require.NoError(t, err)
	}

	w := adminDo(t, env, token, "/api/admin/reports/crm")
	require.Equal(t, http.StatusOK, w.Code)
	rows := decodeBody[[]struct {
		Stage      string `json:"stage"`
		Count      int    `json:"count"`
		Conversion string `json:"conversion"`
	}](t, w)
	require.Len(t, rows, 4)
	assert.Equal(t, 4, rows[0].Count)
	assert.Equal(t, 3, rows[1].Count) // contacted, consulted and converted
	assert.Equal(t, 2, rows[2].Count)
	assert.Equal(t, 1, rows[3].Count)
	assert.Equal(t, "25.0%", rows[3].Conversion)
}

func TestAdminInventoryReport(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "admin")
	product := seedProduct(t, env, 4, 5, 50)

	_, err := env.repos.Inventory.CreateLog(context.Background(), &domain.InventoryLog{
		ClientID:  env.client.ID,
		ProductID: product.ID,
		Type:      "auto-deduct",
		Quantity:  6,
	})
	require.NoError(t, err)

	w := adminDo(t, env, token, "/api/admin/reports/inventory")
	require.Equal(t, http.StatusOK, w.Code)
	rows := decodeBody[[]struct {
		Item      string `json:"item"`
		Used      int    `json:"used"`
		Remaining int    `json:"remaining"`
		Reorder   string `json:"reorder"`
	}](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, 6, rows[0].Used)
	assert.Equal(t, 4, rows[0].Remaining)
	assert.Equal(t, "Yes", rows[0].Reorder)
}

func TestAdminActivityLogs_Filters(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "admin")

	logs := []*domain.ActivityLog{
		{ClientID: env.client.ID, Timestamp: nowRFC3339(), User: "Priya Menon", UserRole: "receptionist", Action: "Registered patient", ActionType: "create"},
		{ClientID: env.client.ID, Timestamp: nowRFC3339(), User: "Dr. Kavya Shetty", UserRole: "doctor", Action: "Submitted SOAP note", ActionType: "create"},
	}
	for _, l := range logs {
		require.NoError(t, env.repos.Logs.CreateActivityLog(context.Background(), l))
	}

	w := adminDo(t, env, token, "/api/admin/logs?role=doctor")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[[]domain.ActivityLog](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "Dr. Kavya Shetty", got[0].User)

	w = adminDo(t, env, token, "/api/admin/logs?search=registered")
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeBody[[]domain.ActivityLog](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "Priya Menon", got[0].User)
}

func TestAdminExportReport(t *testing.T) {
	env := newTestEnv(t)
	token := env.grantRole(t, "admin")

	w := adminDo(t, env, token, "/api/admin/reports/export")
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Report type is required", body["error"])

	w = adminDo(t, env, token, "/api/admin/reports/export?type=revenue")
	require.Equal(t, http.StatusOK, w.Code)
	out := decodeBody[map[string]string](t, w)
	assert.Equal(t, "revenue_report_"+today()+".csv", out["url"])
}
