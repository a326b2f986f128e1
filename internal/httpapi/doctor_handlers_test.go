package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospverse-api/internal/domain"
)

func seedPatient(t *testing.T, env *testEnv, name string) *domain.Patient {
	t.Helper()
	p, err := env.repos.Patients.CreatePatient(context.Background(), &domain.Patient{
		ClientID:     env.client.ID,
		FullName:     name,
		Mobile:       "9876543210",
		RegisteredAt: "2026-08-01T10:00:00Z",
	})
	require.NoError(t, err)
	return p
}

func TestSubmitSOAPNote_DraftAndSubmitted(t *testing.T) {
	env := newTestEnv(t)
	patient := seedPatient(t, env, "Asha Rao")

	w := env.do(t, http.MethodPost, "/api/doctor/soap", map[string]any{
		"patient_id": patient.ID,
		"subjective": "Mild irritation on left cheek",
		"plan":       "Topical steroid, review in 2 weeks",
		"isDraft":    true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	draft := decodeBody[domain.SOAPNote](t, w)
	assert.Equal(t, "draft", draft.Status)
	assert.NotEmpty(t, draft.CreatedAt)

	stored, err := env.repos.Clinical.GetSOAPNote(context.Background(), env.client.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", stored.Status)

	w = env.do(t, http.MethodPost, "/api/doctor/soap", map[string]any{
		"patient_id": patient.ID,
		"assessment": "Contact dermatitis",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	submitted := decodeBody[domain.SOAPNote](t, w)
	assert.Equal(t, "submitted", submitted.Status)
}

func TestDoctorPatientDetail(t *testing.T) {
	env := newTestEnv(t)
	patient := seedPatient(t, env, "Asha Rao")

	_, err := env.repos.Clinical.CreateTreatmentRecord(context.Background(), &domain.TreatmentRecord{
		ClientID:  env.client.ID,
		PatientID: patient.ID,
		Procedure: "Chemical Peel",
		Date:      "2026-08-10",
		Status:    "completed",
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/doctor/soap", map[string]any{
		"patient_id": patient.ID,
		"subjective": "Follow-up visit",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/doctor/patients/"+patient.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody[struct {
		domain.Patient
		VisitHistory []domain.TreatmentRecord `json:"visit_history"`
		SOAPNotes    []domain.SOAPNote        `json:"soap_notes"`
	}](t, w)
	assert.Equal(t, "Asha Rao", detail.FullName)
	require.Len(t, detail.VisitHistory, 1)
	assert.Equal(t, "Chemical Peel", detail.VisitHistory[0].Procedure)
	require.Len(t, detail.SOAPNotes, 1)
}

func TestAssignTechnician(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/doctor/assign-technician", map[string]any{
		"patient_name":  "Asha Rao",
		"technician_id": "tech-1",
		"procedure":     "Laser Hair Removal",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[domain.TechnicianAssignment](t, w)
	assert.Equal(t, "assigned", created.Status)
	assert.NotEmpty(t, created.AssignedAt)

	assignments, err := env.repos.Procedures.ListAssignments(context.Background(), env.client.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "Laser Hair Removal", assignments[0].Procedure)
}

func TestDoctorTreatmentHistory_ProcedureFilter(t *testing.T) {
	env := newTestEnv(t)
	patient := seedPatient(t, env, "Asha Rao")

	for _, proc := range []string{"Chemical Peel", "Microneedling"} {
		_, err := env.repos.Clinical.CreateTreatmentRecord(context.Background(), &domain.TreatmentRecord{
			ClientID:  env.client.ID,
			PatientID: patient.ID,
			Procedure: proc,
			Date:      "2026-08-10",
		})
		require.NoError(t, err)
	}

	w := env.do(t, http.MethodGet, "/api/doctor/treatment-history?patientId="+patient.ID+"&procedure=Microneedling", nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := decodeBody[[]domain.TreatmentRecord](t, w)
	require.Len(t, records, 1)
	assert.Equal(t, "Microneedling", records[0].Procedure)
}

func TestDoctorTechnicians_OnlyAvailable(t *testing.T) {
	env := newTestEnv(t)
	for _, tech := range []struct {
		name      string
		available bool
	}{
		{"Meera Pillai", true},
		{"Suresh Nair", false},
	} {
		_, err := env.repos.Staff.CreateStaff(context.Background(), &domain.Staff{
			ClientID:  env.client.ID,
			Name:      tech.name,
			Role:      "technician",
			Status:    "active",
			Available: tech.available,
		})
		require.NoError(t, err)
	}

	w := env.do(t, http.MethodGet, "/api/doctor/technicians", nil)
	require.Equal(t, http.StatusOK, w.Code)
	technicians := decodeBody[[]map[string]any](t, w)
	require.Len(t, technicians, 1)
	assert.Equal(t, "Meera Pillai", technicians[0]["name"])
}

func TestDoctorUploadPhoto_RequiresFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/doctor/photos", map[string]any{
		"patientId": "pat-1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Patient ID, photo type, and session ID are required", body["error"])
}
