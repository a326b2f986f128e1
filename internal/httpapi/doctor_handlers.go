package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// DoctorHandler is the consultation surface: today's schedule, patient
// charts, SOAP notes, technician handoffs and treatment history.
type DoctorHandler struct {
	appointments repository.AppointmentsRepository
	patients     repository.PatientsRepository
	clinical     repository.ClinicalRepository
	procedures   repository.ProceduresRepository
	photos       repository.PhotosRepository
	staff        repository.StaffRepository
	logger       *zap.Logger
}

func NewDoctorHandler(
	appointments repository.AppointmentsRepository,
	patients repository.PatientsRepository,
	clinical repository.ClinicalRepository,
	procedures repository.ProceduresRepository,
	photos repository.PhotosRepository,
	staff repository.StaffRepository,
	logger *zap.Logger,
) *DoctorHandler {
	return &DoctorHandler{
		appointments: appointments,
		patients:     patients,
		clinical:     clinical,
		procedures:   procedures,
		photos:       photos,
		staff:        staff,
		logger:       logger,
	}
}

func (rt *Router) RegisterDoctorRoutes(h *DoctorHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("doctor", "Doctor", next)
	}
	rt.Handle("GET /api/doctor/appointments", gate(h.TodayAppointments))
	rt.Handle("PATCH /api/doctor/appointments/{id}/status", gate(h.UpdateAppointmentStatus))
	rt.Handle("GET /api/doctor/patients/{id}", gate(h.PatientDetail))
	rt.Handle("POST /api/doctor/soap", gate(h.SubmitSOAPNote))
	rt.Handle("POST /api/doctor/assign-technician", gate(h.AssignTechnician))
	rt.Handle("POST /api/doctor/photos", gate(h.UploadPhoto))
	rt.Handle("GET /api/doctor/treatment-history", gate(h.TreatmentHistory))
	rt.Handle("GET /api/doctor/technicians", gate(h.Technicians))
	rt.Handle("GET /api/doctor/procedures", gate(h.ProcedureNames))
	rt.Handle("GET /api/doctor/stats", gate(h.Stats))
}

func (h *DoctorHandler) TodayAppointments(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()
	appts, err := h.appointments.ListAppointments(r.Context(), tc.ClientID(), repository.AppointmentFilters{
		Date:   today(),
		Status: filterValue(q.Get("status")),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if search := strings.ToLower(q.Get("search")); search != "" {
		filtered := appts[:0]
		for _, a := range appts {
			if strings.Contains(strings.ToLower(a.PatientName), search) ||
				strings.Contains(a.Phone, search) {
				filtered = append(filtered, a)
			}
		}
		appts = filtered
	}

	writeJSON(w, http.StatusOK, appts)
}

func (h *DoctorHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
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

	appt, err := h.appointments.GetAppointment(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	appt.Status = req.Status
	if err := h.appointments.UpdateAppointment(r.Context(), appt); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *DoctorHandler) PatientDetail(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	patientID := r.PathValue("id")

	patient, err := h.patients.GetPatient(r.Context(), tc.ClientID(), patientID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	history, err := h.clinical.ListTreatmentRecords(r.Context(), tc.ClientID(), patientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	notes, err := h.clinical.ListSOAPNotes(r.Context(), tc.ClientID(), patientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, struct {
		*domain.Patient
		VisitHistory []*domain.TreatmentRecord `json:"visit_history"`
		SOAPNotes    []*domain.SOAPNote        `json:"soap_notes"`
	}{patient, history, notes})
}

func (h *DoctorHandler) SubmitSOAPNote(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		domain.SOAPNote
		IsDraft bool `json:"isDraft"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	note := req.SOAPNote
	note.ClientID = tc.ClientID()
	note.CreatedAt = nowRFC3339()
	if req.IsDraft {
		note.Status = "draft"
	} else {
		note.Status = "submitted"
	}

	created, err := h.clinical.CreateSOAPNote(r.Context(), &note)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DoctorHandler) AssignTechnician(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var assignment domain.TechnicianAssignment
	if err := readBodyJSON(r, maxBodyBytes, &assignment); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	assignment.ClientID = tc.ClientID()
	assignment.Status = "assigned"
	assignment.AssignedAt = nowRFC3339()

	created, err := h.procedures.CreateAssignment(r.Context(), &assignment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DoctorHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		PatientID string `json:"patientId"`
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
		FileName  string `json:"fileName"`
		FileSize  int64  `json:"fileSize"`
		Notes     string `json:"notes"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PatientID == "" || req.Type == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "Patient ID, photo type, and session ID are required")
		return
	}

	if req.FileName == "" {
		req.FileName = "photo.jpg"
	}
	photo := &domain.PatientPhoto{
		ClientID:   tc.ClientID(),
		PatientID:  req.PatientID,
		Type:       req.Type,
		SessionID:  req.SessionID,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		Notes:      req.Notes,
		UploadedAt: nowRFC3339(),
		UploadedBy: performedBy(r),
	}
	created, err := h.photos.CreatePhoto(r.Context(), photo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DoctorHandler) TreatmentHistory(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()
	records, err := h.clinical.ListTreatmentRecords(r.Context(), tc.ClientID(), q.Get("patientId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if procedure := filterValue(q.Get("procedure")); procedure != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.Procedure == procedure {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	if status := filterValue(q.Get("status")); status != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.Status == status {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *DoctorHandler) Technicians(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	technicians, err := h.staff.ListStaff(r.Context(), tc.ClientID(), repository.StaffFilters{Role: "technician"})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type techInfo struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Specialization string `json:"specialization,omitempty"`
		Available      bool   `json:"available"`
	}
	out := []techInfo{}
	for _, t := range technicians {
		if t.Available {
			out = append(out, techInfo{ID: t.ID, Name: t.Name, Specialization: t.Specialization, Available: t.Available})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DoctorHandler) ProcedureNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []string{
		"Laser Hair Removal",
		"PRP Treatment",
		"Chemical Peel",
		"Microneedling",
		"Botox Injection",
		"Dermal Fillers",
		"Acne Treatment",
		"Pigmentation Treatment",
	})
}

func (h *DoctorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())

	appts, err := h.appointments.ListAppointments(r.Context(), tc.ClientID(), repository.AppointmentFilters{Date: today()})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	patients, err := h.patients.ListPatients(r.Context(), tc.ClientID(), repository.PatientFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	treatments, err := h.clinical.ListTreatmentRecords(r.Context(), tc.ClientID(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	completed := 0
	for _, a := range appts {
		if a.Status == "completed" {
			completed++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todayAppointments": len(appts),
		"assignedPatients":  len(patients),
		"completedSessions": completed,
		"totalTreatments":   len(treatments),
	})
}
