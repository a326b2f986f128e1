package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospverse-api/internal/domain"
)

func seedPayslip(t *testing.T, env *testEnv, p domain.Payslip) *domain.Payslip {
	t.Helper()
	p.ClientID = env.client.ID
	created, err := env.repos.Payroll.CreatePayslip(context.Background(), &p)
	require.NoError(t, err)
	return created
}

func TestListPayslips_MonthYearFilter(t *testing.T) {
	env := newTestEnv(t)
	// Months follow the stored 0-11 convention: 5 is June.
	seedPayslip(t, env, domain.Payslip{StaffID: "st-1", Month: 5, Year: 2026, NetSalary: 42000})
	seedPayslip(t, env, domain.Payslip{StaffID: "st-1", Month: 0, Year: 2026, NetSalary: 42000})
	seedPayslip(t, env, domain.Payslip{StaffID: "st-2", Month: 5, Year: 2026, NetSalary: 30000})

	w := env.do(t, http.MethodGet, "/api/payroll/payslips/st-1?month=5&year=2026", nil)
	require.Equal(t, http.StatusOK, w.Code)
	payslips := decodeBody[[]domain.Payslip](t, w)
	require.Len(t, payslips, 1)
	assert.Equal(t, 5, payslips[0].Month)

	w = env.do(t, http.MethodGet, "/api/payroll/payslips/st-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	payslips = decodeBody[[]domain.Payslip](t, w)
	assert.Len(t, payslips, 2)
}

func TestDownloadPayslip_FilenameShowsHumanMonth(t *testing.T) {
	env := newTestEnv(t)
	slip := seedPayslip(t, env, domain.Payslip{StaffID: "st-1", EmployeeID: "EMP-7", Month: 0, Year: 2026})

	w := env.do(t, http.MethodGet, "/api/payroll/payslips/download/"+slip.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "payslip_1_2026_EMP-7.pdf", body["url"])
}

func TestLeaveBalance(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.repos.Payroll.UpsertLeaveBalance(context.Background(), &domain.LeaveBalance{
		ClientID:   env.client.ID,
		StaffID:    "st-1",
		Casual:     12,
		Sick:       8,
		CasualUsed: 3,
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/payroll/leave-balance/st-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	balance := decodeBody[domain.LeaveBalance](t, w)
	assert.Equal(t, 12, balance.Casual)
	assert.Equal(t, 3, balance.CasualUsed)

	w = env.do(t, http.MethodGet, "/api/payroll/leave-balance/st-2", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	errBody := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Leave balance not found", errBody["error"])
}

func TestPayrollStats(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()
	month := int(now.Month()) - 1
	year := now.Year()

	seedPayslip(t, env, domain.Payslip{StaffID: "st-1", Month: month, Year: year, NetSalary: 30000, PaymentStatus: "processed"})
	seedPayslip(t, env, domain.Payslip{StaffID: "st-2", Month: month, Year: year, NetSalary: 20000})
	// Last year's payslip stays out of the current-month window.
	seedPayslip(t, env, domain.Payslip{StaffID: "st-1", Month: month, Year: year - 1, NetSalary: 99999, PaymentStatus: "processed"})

	w := env.do(t, http.MethodGet, "/api/payroll/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[map[string]any](t, w)
	assert.Equal(t, float64(50000), stats["totalPayroll"])
	assert.Equal(t, float64(1), stats["employeesProcessed"])
	assert.Equal(t, float64(1), stats["pendingPayslips"])
	assert.Equal(t, float64(50000), stats["averageSalary"])

	breakdown := stats["departmentBreakdown"].(map[string]any)
	assert.Equal(t, float64(25000), breakdown["Medical"])
}
