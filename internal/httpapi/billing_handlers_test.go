package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospverse-api/internal/domain"
)

func createInvoice(t *testing.T, env *testEnv, total float64) domain.Invoice {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/billing/invoices", map[string]any{
		"patient_name":   "Asha Rao",
		"subtotal":       total,
		"total_amount":   total,
		"balance_amount": total,
		"status":         "sent",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeBody[domain.Invoice](t, w)
}

func TestCreateInvoice_NumberSequence(t *testing.T) {
	env := newTestEnv(t)

	first := createInvoice(t, env, 100)
	second := createInvoice(t, env, 200)

	prefix := "INV" + time.Now().UTC().Format("0601")
	assert.Equal(t, prefix+"0001", first.InvoiceNumber)
	assert.Equal(t, prefix+"0002", second.InvoiceNumber)
}

func TestPay_PartialThenFull(t *testing.T) {
	env := newTestEnv(t)
	inv := createInvoice(t, env, 330)

	payURL := fmt.Sprintf("/api/billing/invoices/%s/pay", inv.ID)

	w := env.do(t, http.MethodPost, payURL, map[string]any{"amount": 150, "payment_mode": "cash"})
	require.Equal(t, http.StatusOK, w.Code)
	paid := decodeBody[domain.Invoice](t, w)
	assert.Equal(t, "partially-paid", paid.Status)
	assert.Equal(t, 180.0, paid.BalanceAmount)
	assert.Empty(t, paid.PaidAt)

	w = env.do(t, http.MethodPost, payURL, map[string]any{"amount": 180, "payment_mode": "card"})
	require.Equal(t, http.StatusOK, w.Code)
	paid = decodeBody[domain.Invoice](t, w)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, 0.0, paid.BalanceAmount)
	assert.NotEmpty(t, paid.PaidAt)

	payments, err := env.repos.Billing.ListPayments(context.Background(), env.client.ID, inv.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 150.0, payments[0].Amount)
	assert.Equal(t, "cash", payments[0].PaymentMode)
	assert.Equal(t, 180.0, payments[1].Amount)
	assert.Equal(t, "card", payments[1].PaymentMode)
}

func TestRefund(t *testing.T) {
	env := newTestEnv(t)
	inv := createInvoice(t, env, 500)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/billing/invoices/%s/refund", inv.ID),
		map[string]any{"amount": 500, "reason": "Procedure cancelled"})
	require.Equal(t, http.StatusOK, w.Code)

	refunded := decodeBody[domain.Invoice](t, w)
	assert.Equal(t, "refunded", refunded.Status)
	assert.Equal(t, 500.0, refunded.RefundAmount)
	assert.Equal(t, "Procedure cancelled", refunded.RefundReason)
	assert.NotEmpty(t, refunded.RefundedAt)
}

func TestPay_UnknownInvoice(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/billing/invoices/missing/pay", map[string]any{"amount": 10})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBillingStats(t *testing.T) {
	env := newTestEnv(t)
	inv := createInvoice(t, env, 400)
	createInvoice(t, env, 600)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/billing/invoices/%s/pay", inv.ID),
		map[string]any{"amount": 400, "payment_mode": "upi"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/billing/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, 400, stats["todayRevenue"])
	assert.EqualValues(t, 2, stats["invoicesGenerated"])
	assert.EqualValues(t, 600, stats["pendingPayments"])
}
