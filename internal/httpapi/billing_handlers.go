package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// BillingHandler covers invoices, payments, refunds and billing stats.
// Balance bookkeeping is read-modify-write on the invoice record.
type BillingHandler struct {
	billing repository.BillingRepository
	logger  *zap.Logger
}

func NewBillingHandler(billing repository.BillingRepository, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billing: billing, logger: logger}
}

func (rt *Router) RegisterBillingRoutes(h *BillingHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("billing", "Billing", next)
	}
	rt.Handle("GET /api/billing/invoices", gate(h.ListInvoices))
	rt.Handle("POST /api/billing/invoices", gate(h.CreateInvoice))
	rt.Handle("GET /api/billing/invoices/{id}", gate(h.GetInvoice))
	rt.Handle("POST /api/billing/invoices/{id}/pay", gate(h.Pay))
	rt.Handle("POST /api/billing/invoices/{id}/refund", gate(h.Refund))
	rt.Handle("GET /api/billing/stats", gate(h.Stats))
	rt.Handle("GET /api/billing/procedures", gate(h.ProcedurePrices))
}

func (h *BillingHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()
	filter := repository.InvoiceFilters{
		Status:   filterValue(q.Get("status")),
		Search:   q.Get("search"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
	invoices, err := h.billing.ListInvoices(r.Context(), tc.ClientID(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if mode := filterValue(q.Get("payment_mode")); mode != "" {
		filtered := invoices[:0]
		for _, inv := range invoices {
			if inv.PaymentMode == mode {
				filtered = append(filtered, inv)
			}
		}
		invoices = filtered
	}
	if doctor := filterValue(q.Get("doctor")); doctor != "" {
		filtered := invoices[:0]
		for _, inv := range invoices {
			if inv.DoctorName == doctor {
				filtered = append(filtered, inv)
			}
		}
		invoices = filtered
	}

	writeJSON(w, http.StatusOK, invoices)
}

func (h *BillingHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	invoice, err := h.billing.GetInvoice(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (h *BillingHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var invoice domain.Invoice
	if err := readBodyJSON(r, maxBodyBytes, &invoice); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	seq, err := h.billing.CountInvoicesForMonth(r.Context(), tc.ClientID(), now.Year(), int(now.Month()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	invoice.ClientID = tc.ClientID()
	invoice.InvoiceNumber = fmt.Sprintf("INV%s%04d", now.Format("0601"), seq+1)
	invoice.CreatedAt = now.Format(time.RFC3339)
	invoice.UpdatedAt = invoice.CreatedAt

	created, err := h.billing.CreateInvoice(r.Context(), &invoice)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *BillingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Amount        float64 `json:"amount"`
		PaymentMode   string  `json:"payment_mode"`
		TransactionID string  `json:"transaction_id"`
		Notes         string  `json:"notes"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.billing.GetInvoice(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	now := nowRFC3339()
	invoice.PaidAmount += req.Amount
	invoice.BalanceAmount = invoice.TotalAmount - invoice.PaidAmount
	invoice.PaymentMode = req.PaymentMode
	invoice.UpdatedAt = now
	if invoice.BalanceAmount <= 0 {
		invoice.Status = "paid"
		invoice.PaidAt = now
	} else {
		invoice.Status = "partially-paid"
	}

	if err := h.billing.UpdateInvoice(r.Context(), invoice); err != nil {
		writeRepoError(w, err)
		return
	}

	payment := &domain.Payment{
		InvoiceID:     invoice.ID,
		ClientID:      tc.ClientID(),
		Amount:        req.Amount,
		PaymentMode:   req.PaymentMode,
		TransactionID: req.TransactionID,
		PaidAt:        now,
		Notes:         req.Notes,
	}
	if _, err := h.billing.CreatePayment(r.Context(), payment); err != nil {
		h.logger.Warn("payment record write failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, invoice)
}

func (h *BillingHandler) Refund(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.billing.GetInvoice(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	now := nowRFC3339()
	invoice.Status = "refunded"
	invoice.RefundAmount = req.Amount
	invoice.RefundReason = req.Reason
	invoice.RefundedAt = now
	invoice.UpdatedAt = now

	if err := h.billing.UpdateInvoice(r.Context(), invoice); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (h *BillingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	invoices, err := h.billing.ListInvoices(r.Context(), tc.ClientID(), repository.InvoiceFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	day := today()
	var todayRevenue, pendingPayments, refundedToday, totalRevenue float64
	var invoicesGenerated, paidCount int
	for _, inv := range invoices {
		createdToday := strings.HasPrefix(inv.CreatedAt, day)
		if createdToday {
			invoicesGenerated++
		}
		switch inv.Status {
		case "paid":
			totalRevenue += inv.PaidAmount
			paidCount++
			if createdToday {
				todayRevenue += inv.PaidAmount
			}
		case "sent", "partially-paid", "overdue":
			pendingPayments += inv.BalanceAmount
		case "refunded":
			if createdToday && strings.HasPrefix(inv.RefundedAt, day) {
				refundedToday += inv.RefundAmount
			}
		}
	}

	averageInvoiceValue := 0.0
	if paidCount > 0 {
		averageInvoiceValue = totalRevenue / float64(paidCount)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todayRevenue":        todayRevenue,
		"invoicesGenerated":   invoicesGenerated,
		"pendingPayments":     pendingPayments,
		"refundedToday":       refundedToday,
		"totalRevenue":        totalRevenue,
		"averageInvoiceValue": averageInvoiceValue,
	})
}

// ProcedurePrices is the static price list the invoice composer offers.
func (h *BillingHandler) ProcedurePrices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []domain.ProcedurePrice{
		{ID: "1", Name: "Laser Hair Removal", UnitPrice: 150},
		{ID: "2", Name: "PRP Treatment", UnitPrice: 300},
		{ID: "3", Name: "Chemical Peel", UnitPrice: 120},
		{ID: "4", Name: "Microneedling", UnitPrice: 200},
		{ID: "5", Name: "Botox Injection", UnitPrice: 400},
		{ID: "6", Name: "Dermal Fillers", UnitPrice: 500},
		{ID: "7", Name: "Acne Treatment", UnitPrice: 80},
		{ID: "8", Name: "Consultation", UnitPrice: 50},
	})
}
