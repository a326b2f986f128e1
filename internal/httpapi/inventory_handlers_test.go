package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

func seedProduct(t *testing.T, env *testEnv, stock, min, max int) *domain.Product {
	t.Helper()
	p, err := env.repos.Inventory.CreateProduct(context.Background(), &domain.Product{
		ClientID:      env.client.ID,
		Name:          "Hyaluronic Acid Serum",
		Category:      "consumables",
		CostPrice:     45,
		CurrentStock:  stock,
		MinStockLevel: min,
		MaxStockLevel: max,
		IsActive:      true,
	})
	require.NoError(t, err)
	return p
}

func TestAddStock(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, 10, 5, 50)

	w := env.do(t, http.MethodPost, "/api/inventory/products/"+p.ID+"/add-stock",
		map[string]any{"quantity": 15})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeBody[domain.Product](t, w)
	assert.Equal(t, 25, updated.CurrentStock)

	logs, err := env.repos.Inventory.ListLogs(context.Background(), env.client.ID, repository.InventoryLogFilters{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "stock-in", logs[0].Type)
	assert.Equal(t, 10, logs[0].PreviousStock)
	assert.Equal(t, 25, logs[0].NewStock)
}

func TestDeduct_InsufficientStockLeavesProductUntouched(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, 10, 5, 50)

	w := env.do(t, http.MethodPost, "/api/inventory/products/"+p.ID+"/deduct",
		map[string]any{"quantity": 12, "reason": "Laser Hair Removal session"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Insufficient stock", body["error"])

	after, err := env.repos.Inventory.GetProduct(context.Background(), env.client.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.CurrentStock)

	logs, err := env.repos.Inventory.ListLogs(context.Background(), env.client.ID, repository.InventoryLogFilters{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDeduct_WritesAutoDeductLog(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, 10, 5, 50)

	w := env.do(t, http.MethodPost, "/api/inventory/products/"+p.ID+"/deduct",
		map[string]any{"quantity": 3, "reason": "PRP Treatment", "patientName": "Asha Rao"})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeBody[domain.Product](t, w)
	assert.Equal(t, 7, updated.CurrentStock)
	assert.NotEmpty(t, updated.LastUsed)

	logs, err := env.repos.Inventory.ListLogs(context.Background(), env.client.ID, repository.InventoryLogFilters{Type: "auto-deduct"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "System", logs[0].PerformedBy)
	assert.Equal(t, "Asha Rao", logs[0].PatientName)
}

func TestAdjust_RejectsNegativeStock(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, 4, 2, 20)

	w := env.do(t, http.MethodPost, "/api/inventory/products/adjust",
		map[string]any{"productId": p.ID, "quantity": 9, "type": "remove", "reason": "Damaged batch"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Stock cannot be negative", body["error"])
}

func TestAdjust_MissingType(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, 4, 2, 20)

	w := env.do(t, http.MethodPost, "/api/inventory/products/adjust",
		map[string]any{"productId": p.ID, "quantity": 2, "type": "transfer", "reason": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Valid adjustment type (add/remove) is required", body["error"])
}

func TestInventoryStats(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env, 3, 5, 50)  // below min -> low stock
	seedProduct(t, env, 30, 5, 50) // healthy

	w := env.do(t, http.MethodGet, "/api/inventory/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, 2, stats["totalProducts"])
	assert.EqualValues(t, 1, stats["lowStockAlerts"])
	assert.EqualValues(t, 45*3+45*30, stats["totalValue"])
	assert.EqualValues(t, 1, stats["categoriesCount"])
}

func TestListProducts_StockLevelBanding(t *testing.T) {
	env := newTestEnv(t)
	low := seedProduct(t, env, 3, 5, 50)
	high := seedProduct(t, env, 45, 5, 50)

	w := env.do(t, http.MethodGet, "/api/inventory/products?stockLevel=low", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decodeBody[[]domain.Product](t, w)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)

	w = env.do(t, http.MethodGet, "/api/inventory/products?stockLevel=high", nil)
	products = decodeBody[[]domain.Product](t, w)
	require.Len(t, products, 1)
	assert.Equal(t, high.ID, products[0].ID)
}
