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

func seedProcedure(t *testing.T, env *testEnv, p domain.Procedure) *domain.Procedure {
	t.Helper()
	p.ClientID = env.client.ID
	if p.PatientName == "" {
		p.PatientName = "Asha Rao"
	}
	if p.Status == "" {
		p.Status = "pending"
	}
	created, err := env.repos.Procedures.CreateProcedure(context.Background(), &p)
	require.NoError(t, err)
	return created
}

func TestStartProcedure(t *testing.T) {
	env := newTestEnv(t)
	proc := seedProcedure(t, env, domain.Procedure{Procedure: "Laser Hair Removal", Date: today()})

	w := env.do(t, http.MethodPost, "/api/technician/procedures/"+proc.ID+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	started := decodeBody[domain.Procedure](t, w)
	assert.Equal(t, "in-progress", started.Status)
	assert.Len(t, started.StartTime, 5)
}

func TestCompleteProcedure_WritesSessionHistory(t *testing.T) {
	env := newTestEnv(t)
	proc := seedProcedure(t, env, domain.Procedure{
		PatientID:  "pat-1",
		Procedure:  "Hydrafacial",
		Duration:   45,
		AssignedBy: "Dr. Kavya Shetty",
		Date:       today(),
	})

	w := env.do(t, http.MethodPost, "/api/technician/procedures/"+proc.ID+"/complete",
		map[string]any{"notes": "Tolerated well"})
	require.Equal(t, http.StatusOK, w.Code)
	completed := decodeBody[domain.Procedure](t, w)
	assert.Equal(t, "completed", completed.Status)
	assert.Equal(t, "Tolerated well", completed.CompletionNotes)
	assert.Len(t, completed.EndTime, 5)

	history, err := env.repos.Procedures.ListSessionHistory(context.Background(), env.client.ID, "")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "completed", history[0].Status)
	assert.Equal(t, "Hydrafacial", history[0].Procedure)
	// No actual duration reported, so the planned one is recorded.
	assert.Equal(t, 45, history[0].Duration)
	assert.Equal(t, "Dr. Kavya Shetty", history[0].AssignedBy)
}

func TestTechnicianStats(t *testing.T) {
	env := newTestEnv(t)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	seedProcedure(t, env, domain.Procedure{Procedure: "Chemical Peel", Date: today(), ScheduledTime: "23:59"})
	seedProcedure(t, env, domain.Procedure{Procedure: "Microneedling", Date: yesterday, ScheduledTime: "09:00"})
	seedProcedure(t, env, domain.Procedure{Procedure: "Hydrafacial", Date: yesterday, Status: "completed"})

	w := env.do(t, http.MethodGet, "/api/technician/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[map[string]any](t, w)
	assert.Equal(t, float64(1), stats["assignedToday"])
	assert.Equal(t, float64(1), stats["completedSessions"])
	assert.Equal(t, float64(1), stats["missedDelayed"])
	assert.Equal(t, float64(0), stats["totalHistory"])
}

func TestTechnicianProcedures_SearchFilter(t *testing.T) {
	env := newTestEnv(t)
	seedProcedure(t, env, domain.Procedure{PatientName: "Asha Rao", Procedure: "Chemical Peel", Date: today()})
	seedProcedure(t, env, domain.Procedure{PatientName: "Ravi Kumar", Procedure: "Microneedling", Date: today()})

	w := env.do(t, http.MethodGet, "/api/technician/procedures?search=ravi", nil)
	require.Equal(t, http.StatusOK, w.Code)
	procs := decodeBody[[]domain.Procedure](t, w)
	require.Len(t, procs, 1)
	assert.Equal(t, "Ravi Kumar", procs[0].PatientName)
}
