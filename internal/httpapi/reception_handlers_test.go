package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospverse-api/internal/domain"
)

func seedDoctor(t *testing.T, env *testEnv, name string) *domain.Staff {
	t.Helper()
	doc, err := env.repos.Staff.CreateStaff(context.Background(), &domain.Staff{
		ClientID:       env.client.ID,
		Name:           name,
		Role:           "doctor",
		Status:         "active",
		Specialization: "Dermatology",
		Available:      true,
	})
	require.NoError(t, err)
	return doc
}

func TestBookAppointment_DenormalizesDoctorName(t *testing.T) {
	env := newTestEnv(t)
	doc := seedDoctor(t, env, "Dr. Kavya Shetty")

	w := env.do(t, http.MethodPost, "/api/reception/appointments", map[string]any{
		"patient_name": "Ravi Kumar",
		"doctor_id":    doc.ID,
		"date":         "2026-09-01",
		"time":         "10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	appt := decodeBody[domain.Appointment](t, w)
	assert.Equal(t, "Dr. Kavya Shetty", appt.DoctorName)
	assert.Equal(t, "confirmed", appt.Status)
	assert.NotEmpty(t, appt.BookedAt)
}

func TestBookAppointment_UnknownDoctorFallback(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/reception/appointments", map[string]any{
		"patient_name": "Ravi Kumar",
		"doctor_id":    "missing",
		"date":         "2026-09-01",
		"time":         "10:30",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	appt := decodeBody[domain.Appointment](t, w)
	assert.Equal(t, "Unknown Doctor", appt.DoctorName)
}

func TestQueue_SequentialNumbers(t *testing.T) {
	env := newTestEnv(t)

	for i, name := range []string{"Ravi Kumar", "Asha Rao", "Priya Menon"} {
		w := env.do(t, http.MethodPost, "/api/reception/queue", map[string]any{"patient_name": name})
		require.Equal(t, http.StatusCreated, w.Code)
		entry := decodeBody[domain.QueueEntry](t, w)
		assert.Equal(t, i+1, entry.QueueNumber)
		assert.Equal(t, "waiting", entry.Status)
	}
}

func TestUpdateQueueStatus(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/reception/queue", map[string]any{"patient_name": "Ravi Kumar"})
	entry := decodeBody[domain.QueueEntry](t, w)

	w = env.do(t, http.MethodPatch, "/api/reception/queue/"+entry.ID+"/status",
		map[string]any{"status": "in-consultation"})
	require.Equal(t, http.StatusOK, w.Code)
	queue := decodeBody[[]domain.QueueEntry](t, w)
	require.Len(t, queue, 1)
	assert.Equal(t, "in-consultation", queue[0].Status)

	w = env.do(t, http.MethodPatch, "/api/reception/queue/missing/status",
		map[string]any{"status": "completed"})
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Patient not found in queue", body["error"])
}

func TestTimeSlots_ExcludesBooked(t *testing.T) {
	env := newTestEnv(t)
	doc := seedDoctor(t, env, "Dr. Kavya Shetty")

	w := env.do(t, http.MethodPost, "/api/reception/appointments", map[string]any{
		"patient_name": "Ravi Kumar",
		"doctor_id":    doc.ID,
		"date":         "2026-09-01",
		"time":         "09:30",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/reception/time-slots?date=2026-09-01&doctorId="+doc.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	slots := decodeBody[[]string](t, w)
	assert.Len(t, slots, len(appointmentSlots)-1)
	assert.NotContains(t, slots, "09:30")
	assert.Contains(t, slots, "09:00")
}

func TestTimeSlots_RequiresDateAndDoctor(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/reception/time-slots?date=2026-09-01", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Date and doctor ID are required", body["error"])
}

func TestUploadConsent_Defaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/reception/consent", map[string]any{
		"patientId":   "pat-1",
		"patientName": "Ravi Kumar",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	form := decodeBody[domain.ConsentForm](t, w)
	assert.Equal(t, "consent.pdf", form.FileName)
	assert.Equal(t, "application/pdf", form.FileType)

	forms, err := env.repos.Patients.ListConsentForms(context.Background(), env.client.ID, "pat-1")
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "consent.pdf", forms[0].FileName)
}
