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

func TestCreateStaff_Defaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/hr/staff", map[string]any{
		"name": "Meera Pillai",
		"role": "technician",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[domain.Staff](t, w)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, today(), created.JoinDate)
}

func TestGetStaff_Detail(t *testing.T) {
	env := newTestEnv(t)
	member := seedDoctor(t, env, "Dr. Kavya Shetty")

	_, err := env.repos.Staff.CreateShift(context.Background(), &domain.Shift{
		ClientID:  env.client.ID,
		StaffID:   member.ID,
		StartTime: "09:00",
		EndTime:   "17:00",
		Status:    "completed",
	})
	require.NoError(t, err)
	_, err = env.repos.Payroll.UpsertSalaryStructure(context.Background(), &domain.SalaryStructure{
		ClientID:    env.client.ID,
		StaffID:     member.ID,
		BasicSalary: 80000,
		Allowances:  12000,
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/hr/staff/"+member.ID+"/documents", map[string]any{
		"type": "license",
		"name": "Medical Council Registration",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/hr/staff/"+member.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody[struct {
		domain.Staff
		Documents []domain.StaffDocument   `json:"documents"`
		Shifts    []domain.Shift           `json:"shifts"`
		Salary    *domain.SalaryStructure  `json:"salary"`
		Notes     []domain.PerformanceNote `json:"performance"`
	}](t, w)
	assert.Equal(t, "Dr. Kavya Shetty", detail.Name)
	require.Len(t, detail.Documents, 1)
	assert.Equal(t, "document.pdf", detail.Documents[0].FileName)
	require.Len(t, detail.Shifts, 1)
	require.NotNil(t, detail.Salary)
	assert.Equal(t, 80000.0, detail.Salary.BasicSalary)
}

func TestGetStaff_NoSalaryStructure(t *testing.T) {
	env := newTestEnv(t)
	member := seedDoctor(t, env, "Dr. Kavya Shetty")

	w := env.do(t, http.MethodGet, "/api/hr/staff/"+member.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody[struct {
		Salary *domain.SalaryStructure `json:"salary"`
	}](t, w)
	assert.Nil(t, detail.Salary)
}

func TestHRAttendance_MonthFilter(t *testing.T) {
	env := newTestEnv(t)
	member := seedDoctor(t, env, "Dr. Kavya Shetty")

	for _, date := range []string{"2026-07-30", "2026-08-03", "2026-08-04"} {
		_, err := env.repos.Staff.CreateAttendance(context.Background(), &domain.AttendanceRecord{
			ClientID: env.client.ID,
			StaffID:  member.ID,
			Date:     date,
			Status:   "present",
		})
		require.NoError(t, err)
	}

	w := env.do(t, http.MethodGet, "/api/hr/attendance/"+member.ID+"?month=8&year=2026", nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := decodeBody[[]domain.AttendanceRecord](t, w)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, "2026-08", rec.Date[:7])
	}
}

func TestAddPerformanceNote_UnknownStaff(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/hr/staff/missing/performance", map[string]any{
		"note": "Handled the rush hour well",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Staff member not found", body["error"])
}

func TestHRStats(t *testing.T) {
	env := newTestEnv(t)
	doc := seedDoctor(t, env, "Dr. Kavya Shetty")

	_, err := env.repos.Staff.CreateStaff(context.Background(), &domain.Staff{
		ClientID:   env.client.ID,
		Name:       "Meera Pillai",
		Role:       "technician",
		Status:     "active",
		Department: "Technical",
		JoinDate:   time.Now().UTC().Format("2006-01") + "-01",
	})
	require.NoError(t, err)
	_, err = env.repos.Staff.CreateAttendance(context.Background(), &domain.AttendanceRecord{
		ClientID: env.client.ID,
		StaffID:  doc.ID,
		Date:     today(),
		Status:   "leave",
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/hr/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[map[string]any](t, w)
	assert.Equal(t, float64(2), stats["totalStaff"])
	assert.Equal(t, float64(1), stats["onLeaveToday"])
	assert.Equal(t, float64(1), stats["newJoinsThisMonth"])
	departments := stats["departmentCounts"].(map[string]any)
	assert.Equal(t, float64(1), departments["Technical"])
}
