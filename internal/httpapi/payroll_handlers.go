package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"hospverse-api/internal/repository"
)

// PayrollHandler serves payslips and leave balances. Months follow the
// stored 0-11 convention; download filenames show the human 1-12 month.
type PayrollHandler struct {
	payroll repository.PayrollRepository
	logger  *zap.Logger
}

func NewPayrollHandler(payroll repository.PayrollRepository, logger *zap.Logger) *PayrollHandler {
	return &PayrollHandler{payroll: payroll, logger: logger}
}

func (rt *Router) RegisterPayrollRoutes(h *PayrollHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("payroll", "Payroll", next)
	}
	rt.Handle("GET /api/payroll/payslips/{user_id}", gate(h.ListPayslips))
	rt.Handle("GET /api/payroll/payslips/details/{id}", gate(h.PayslipDetails))
	rt.Handle("GET /api/payroll/payslips/download/{id}", gate(h.DownloadPayslip))
	rt.Handle("GET /api/payroll/leave-balance/{staff_id}", gate(h.LeaveBalance))
	rt.Handle("GET /api/payroll/stats", gate(h.Stats))
}

func (h *PayrollHandler) ListPayslips(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()

	filter := repository.PayslipFilters{StaffID: r.PathValue("user_id")}
	if v := q.Get("month"); v != "" {
		month := parseInt(v, 0)
		filter.Month = &month
	}
	if v := q.Get("year"); v != "" {
		year := parseInt(v, 0)
		filter.Year = &year
	}

	payslips, err := h.payroll.ListPayslips(r.Context(), tc.ClientID(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payslips)
}

func (h *PayrollHandler) PayslipDetails(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	payslip, err := h.payroll.GetPayslip(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payslip)
}

func (h *PayrollHandler) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	payslip, err := h.payroll.GetPayslip(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url": fmt.Sprintf("payslip_%d_%d_%s.pdf", payslip.Month+1, payslip.Year, payslip.EmployeeID),
	})
}

func (h *PayrollHandler) LeaveBalance(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	balance, err := h.payroll.GetLeaveBalance(r.Context(), tc.ClientID(), r.PathValue("staff_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Leave balance not found")
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (h *PayrollHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())

	now := time.Now().UTC()
	month := int(now.Month()) - 1
	year := now.Year()
	payslips, err := h.payroll.ListPayslips(r.Context(), tc.ClientID(), repository.PayslipFilters{
		Month: &month,
		Year:  &year,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total := 0.0
	processed := 0
	pending := 0
	for _, p := range payslips {
		total += p.NetSalary
		if p.PaymentStatus == "processed" {
			processed++
		} else {
			pending++
		}
	}
	average := 0.0
	if processed > 0 {
		average = total / float64(processed)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalPayroll":       total,
		"employeesProcessed": processed,
		"pendingPayslips":    pending,
		"averageSalary":      average,
		"departmentBreakdown": map[string]float64{
			"Medical":        25000,
			"Administration": 18000,
			"Technical":      12000,
			"Support":        8000,
		},
	})
}
