package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospverse-api/internal/domain"
)

func createLead(t *testing.T, env *testEnv, name, source string) domain.Lead {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/crm/leads", map[string]any{
		"full_name": name,
		"mobile":    "9876500000",
		"source":    source,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeBody[domain.Lead](t, w)
}

func TestCreateLead_SeedsStatusHistory(t *testing.T) {
	env := newTestEnv(t)

	lead := createLead(t, env, "Priya Menon", "whatsapp")
	assert.Equal(t, "new", lead.Status)
	require.Len(t, lead.StatusHistory, 1)
	assert.Equal(t, "System", lead.StatusHistory[0].ChangedBy)
	assert.Equal(t, "Lead created from whatsapp", lead.StatusHistory[0].Notes)
	assert.Empty(t, lead.NotesHistory)
}

func TestUpdateLeadStatus_AppendsOneHistoryEntry(t *testing.T) {
	env := newTestEnv(t)
	lead := createLead(t, env, "Priya Menon", "form")

	w := env.do(t, http.MethodPatch, "/api/crm/leads/"+lead.ID+"/status",
		map[string]any{"status": "contacted", "notes": "Called, asked to ring back"})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeBody[domain.Lead](t, w)
	assert.Equal(t, "contacted", updated.Status)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, "contacted", updated.StatusHistory[1].Status)
	assert.Equal(t, "Current User", updated.StatusHistory[1].ChangedBy)
}

func TestConvertLead_CreatesConvertedRecord(t *testing.T) {
	env := newTestEnv(t)
	lead := createLead(t, env, "Priya Menon", "instagram")

	w := env.do(t, http.MethodPost, "/api/crm/leads/"+lead.ID+"/convert", nil)
	require.Equal(t, http.StatusOK, w.Code)

	record := decodeBody[domain.ConvertedLead](t, w)
	assert.Equal(t, lead.ID, record.LeadID)
	assert.Equal(t, "Priya Menon", record.FullName)
	assert.NotEmpty(t, record.PatientID)

	w = env.do(t, http.MethodGet, "/api/crm/leads/"+lead.ID, nil)
	after := decodeBody[domain.Lead](t, w)
	assert.Equal(t, "converted", after.Status)
	assert.NotEmpty(t, after.ConvertedAt)
	require.Len(t, after.StatusHistory, 2)
	assert.Equal(t, "Lead converted to patient", after.StatusHistory[1].Notes)

	w = env.do(t, http.MethodGet, "/api/crm/converted", nil)
	converted := decodeBody[[]domain.ConvertedLead](t, w)
	require.Len(t, converted, 1)
}

func TestDropLead_RequiresReason(t *testing.T) {
	env := newTestEnv(t)
	lead := createLead(t, env, "Priya Menon", "walk-in")

	w := env.do(t, http.MethodPost, "/api/crm/leads/"+lead.ID+"/drop", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Reason is required", body["error"])

	w = env.do(t, http.MethodPost, "/api/crm/leads/"+lead.ID+"/drop",
		map[string]any{"reason": "Budget mismatch"})
	require.Equal(t, http.StatusOK, w.Code)
	dropped := decodeBody[domain.Lead](t, w)
	assert.Equal(t, "dropped", dropped.Status)
	assert.Equal(t, "Budget mismatch", dropped.DropReason)
}

func TestCRMStats_ConversionRate(t *testing.T) {
	env := newTestEnv(t)
	leads := make([]domain.Lead, 4)
	for i := range leads {
		leads[i] = createLead(t, env, "Lead", "whatsapp")
	}
	w := env.do(t, http.MethodPost, "/api/crm/leads/"+leads[0].ID+"/convert", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/crm/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, 4, stats["totalLeads"])
	assert.EqualValues(t, 1, stats["converted"])
	assert.EqualValues(t, 25, stats["conversionRate"])
	assert.EqualValues(t, 4, stats["whatsappLeads"])
	assert.EqualValues(t, 3, stats["newLeads"])
}
