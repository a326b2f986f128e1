package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// ReceptionHandler is the front-desk surface: registrations, bookings,
// the walk-in queue and consent records.
type ReceptionHandler struct {
	patients     repository.PatientsRepository
	appointments repository.AppointmentsRepository
	staff        repository.StaffRepository
	logger       *zap.Logger
}

func NewReceptionHandler(patients repository.PatientsRepository, appointments repository.AppointmentsRepository, staff repository.StaffRepository, logger *zap.Logger) *ReceptionHandler {
	return &ReceptionHandler{patients: patients, appointments: appointments, staff: staff, logger: logger}
}

func (rt *Router) RegisterReceptionRoutes(h *ReceptionHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("reception", "Reception", next)
	}
	rt.Handle("GET /api/reception/appointments/today", gate(h.TodayAppointments))
	rt.Handle("POST /api/reception/patients", gate(h.RegisterPatient))
	rt.Handle("POST /api/reception/appointments", gate(h.BookAppointment))
	rt.Handle("GET /api/reception/queue", gate(h.Queue))
	rt.Handle("POST /api/reception/queue", gate(h.AddToQueue))
	rt.Handle("PATCH /api/reception/queue/{id}/status", gate(h.UpdateQueueStatus))
	rt.Handle("POST /api/reception/consent", gate(h.UploadConsent))
	rt.Handle("GET /api/reception/doctors", gate(h.Doctors))
	rt.Handle("GET /api/reception/time-slots", gate(h.TimeSlots))
	rt.Handle("GET /api/reception/stats", gate(h.Stats))
}

func (h *ReceptionHandler) TodayAppointments(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	appts, err := h.appointments.ListAppointments(r.Context(), tc.ClientID(), repository.AppointmentFilters{Date: today()})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *ReceptionHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var patient domain.Patient
	if err := readBodyJSON(r, maxBodyBytes, &patient); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	patient.ClientID = tc.ClientID()
	patient.RegisteredAt = nowRFC3339()

	created, err := h.patients.CreatePatient(r.Context(), &patient)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ReceptionHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var appt domain.Appointment
	if err := readBodyJSON(r, maxBodyBytes, &appt); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Denormalize the doctor name at booking time so the schedule reads
	// without a join.
	appt.DoctorName = "Unknown Doctor"
	if appt.DoctorID != "" {
		doctor, err := h.staff.GetStaff(r.Context(), tc.ClientID(), appt.DoctorID)
		if err == nil {
			appt.DoctorName = doctor.Name
		} else if !errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	appt.ClientID = tc.ClientID()
	appt.Status = "confirmed"
	appt.BookedAt = nowRFC3339()

	created, err := h.appointments.CreateAppointment(r.Context(), &appt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ReceptionHandler) Queue(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	queue, err := h.appointments.ListQueue(r.Context(), tc.ClientID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, queue)
}

func (h *ReceptionHandler) AddToQueue(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var entry domain.QueueEntry
	if err := readBodyJSON(r, maxBodyBytes, &entry); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	queue, err := h.appointments.ListQueue(r.Context(), tc.ClientID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entry.ClientID = tc.ClientID()
	entry.Status = "waiting"
	entry.CheckedInAt = nowRFC3339()
	entry.QueueNumber = len(queue) + 1

	created, err := h.appointments.CreateQueueEntry(r.Context(), &entry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ReceptionHandler) UpdateQueueStatus(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Status string `json:"status"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	entry, err := h.appointments.GetQueueEntry(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Patient not found in queue")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entry.Status = req.Status
	if err := h.appointments.UpdateQueueEntry(r.Context(), entry); err != nil {
		writeRepoError(w, err)
		return
	}

	queue, err := h.appointments.ListQueue(r.Context(), tc.ClientID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, queue)
}

func (h *ReceptionHandler) UploadConsent(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		PatientID   string `json:"patientId"`
		PatientName string `json:"patientName"`
		Signature   string `json:"signature"`
		FileName    string `json:"fileName"`
		FileType    string `json:"fileType"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PatientID == "" || req.PatientName == "" {
		writeError(w, http.StatusBadRequest, "Patient ID and name are required")
		return
	}

	// The file itself lives in external storage; only metadata is kept.
	if req.FileName == "" {
		req.FileName = "consent.pdf"
	}
	if req.FileType == "" {
		req.FileType = "application/pdf"
	}

	form := &domain.ConsentForm{
		ClientID:    tc.ClientID(),
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		FileType:    req.FileType,
		FileName:    req.FileName,
		Signature:   req.Signature,
		UploadedAt:  nowRFC3339(),
	}
	created, err := h.patients.CreateConsentForm(r.Context(), form)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ReceptionHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	doctors, err := h.staff.ListStaff(r.Context(), tc.ClientID(), repository.StaffFilters{Role: "doctor"})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type doctorInfo struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Specialization string `json:"specialization,omitempty"`
		Available      bool   `json:"available"`
	}
	out := []doctorInfo{}
	for _, d := range doctors {
		out = append(out, doctorInfo{ID: d.ID, Name: d.Name, Specialization: d.Specialization, Available: d.Available})
	}
	writeJSON(w, http.StatusOK, out)
}

// The bookable day is a fixed half-hour grid with a lunch gap.
var appointmentSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30",
}

func (h *ReceptionHandler) TimeSlots(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	date := r.URL.Query().Get("date")
	doctorID := r.URL.Query().Get("doctorId")
	if date == "" || doctorID == "" {
		writeError(w, http.StatusBadRequest, "Date and doctor ID are required")
		return
	}

	booked, err := h.appointments.ListAppointments(r.Context(), tc.ClientID(), repository.AppointmentFilters{
		Date:     date,
		DoctorID: doctorID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	taken := map[string]bool{}
	for _, a := range booked {
		taken[a.Time] = true
	}
	available := []string{}
	for _, slot := range appointmentSlots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	writeJSON(w, http.StatusOK, available)
}

func (h *ReceptionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	day := today()

	appts, err := h.appointments.ListAppointments(r.Context(), tc.ClientID(), repository.AppointmentFilters{Date: day})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	patients, err := h.patients.ListPatients(r.Context(), tc.ClientID(), repository.PatientFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	queue, err := h.appointments.ListQueue(r.Context(), tc.ClientID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	walkIns := 0
	for _, p := range patients {
		if strings.HasPrefix(p.RegisteredAt, day) {
			walkIns++
		}
	}
	completed := 0
	for _, a := range appts {
		if a.Status == "completed" {
			completed++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todayAppointments":     len(appts),
		"walkInsRegistered":     walkIns,
		"patientsInQueue":       len(queue),
		"completedAppointments": completed,
	})
}
