package httpapi

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// TechnicianHandler drives the technician workbench: the assigned
// procedure queue, start/complete transitions and session history.
type TechnicianHandler struct {
	procedures repository.ProceduresRepository
	staff      repository.StaffRepository
	logger     *zap.Logger
}

func NewTechnicianHandler(procedures repository.ProceduresRepository, staff repository.StaffRepository, logger *zap.Logger) *TechnicianHandler {
	return &TechnicianHandler{procedures: procedures, staff: staff, logger: logger}
}

func (rt *Router) RegisterTechnicianRoutes(h *TechnicianHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("technician", "Technician", next)
	}
	rt.Handle("GET /api/technician/procedures", gate(h.ListProcedures))
	rt.Handle("GET /api/technician/procedures/{id}", gate(h.GetProcedure))
	rt.Handle("POST /api/technician/procedures/{id}/start", gate(h.StartProcedure))
	rt.Handle("POST /api/technician/procedures/{id}/complete", gate(h.CompleteProcedure))
	rt.Handle("GET /api/technician/history", gate(h.History))
	rt.Handle("GET /api/technician/stats", gate(h.Stats))
	rt.Handle("GET /api/technician/procedure-types", gate(h.ProcedureTypes))
	rt.Handle("GET /api/technician/doctors", gate(h.Doctors))
}

func (h *TechnicianHandler) ListProcedures(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()
	procs, err := h.procedures.ListProcedures(r.Context(), tc.ClientID(), repository.ProcedureFilters{
		Status: filterValue(q.Get("status")),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if search := strings.ToLower(q.Get("search")); search != "" {
		filtered := procs[:0]
		for _, p := range procs {
			if strings.Contains(strings.ToLower(p.PatientName), search) ||
				strings.Contains(strings.ToLower(p.Procedure), search) {
				filtered = append(filtered, p)
			}
		}
		procs = filtered
	}

	writeJSON(w, http.StatusOK, procs)
}

func (h *TechnicianHandler) GetProcedure(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	proc, err := h.procedures.GetProcedure(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proc)
}

func (h *TechnicianHandler) StartProcedure(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	proc, err := h.procedures.GetProcedure(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	proc.Status = "in-progress"
	proc.StartTime = time.Now().UTC().Format("15:04")
	if err := h.procedures.UpdateProcedure(r.Context(), proc); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proc)
}

func (h *TechnicianHandler) CompleteProcedure(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Notes          string `json:"notes"`
		ActualDuration int    `json:"actualDuration"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	proc, err := h.procedures.GetProcedure(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	proc.Status = "completed"
	proc.EndTime = time.Now().UTC().Format("15:04")
	proc.CompletionNotes = req.Notes
	proc.ActualDuration = req.ActualDuration
	if err := h.procedures.UpdateProcedure(r.Context(), proc); err != nil {
		writeRepoError(w, err)
		return
	}

	duration := req.ActualDuration
	if duration == 0 {
		duration = proc.Duration
	}
	entry := &domain.SessionHistoryEntry{
		ClientID:    tc.ClientID(),
		PatientID:   proc.PatientID,
		PatientName: proc.PatientName,
		Procedure:   proc.Procedure,
		Duration:    duration,
		AssignedBy:  proc.AssignedBy,
		Date:        proc.Date,
		StartTime:   proc.StartTime,
		EndTime:     proc.EndTime,
		Status:      "completed",
		Notes:       req.Notes,
	}
	if _, err := h.procedures.CreateSessionHistory(r.Context(), entry); err != nil {
		h.logger.Warn("session history write failed", zap.String("procedure_id", proc.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, proc)
}

func (h *TechnicianHandler) History(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()
	entries, err := h.procedures.ListSessionHistory(r.Context(), tc.ClientID(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dateFrom := q.Get("dateFrom")
	dateTo := q.Get("dateTo")
	status := filterValue(q.Get("status"))
	doctor := filterValue(q.Get("doctor"))
	procedure := filterValue(q.Get("procedure"))
	search := strings.ToLower(q.Get("search"))

	filtered := entries[:0]
	for _, e := range entries {
		if dateFrom != "" && e.Date < dateFrom {
			continue
		}
		if dateTo != "" && e.Date > dateTo {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		if doctor != "" && e.AssignedBy != doctor {
			continue
		}
		if procedure != "" && e.Procedure != procedure {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.PatientName), search) {
			continue
		}
		filtered = append(filtered, e)
	}

	writeJSON(w, http.StatusOK, filtered)
}

func (h *TechnicianHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())

	procs, err := h.procedures.ListProcedures(r.Context(), tc.ClientID(), repository.ProcedureFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	history, err := h.procedures.ListSessionHistory(r.Context(), tc.ClientID(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now().UTC()
	assignedToday := 0
	completed := 0
	missedDelayed := 0
	for _, p := range procs {
		if p.Date == today() {
			assignedToday++
		}
		switch p.Status {
		case "completed":
			completed++
		case "pending":
			scheduled, err := time.Parse("2006-01-02 15:04", p.Date+" "+p.ScheduledTime)
			if err == nil && scheduled.Before(now) {
				missedDelayed++
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"assignedToday":     assignedToday,
		"completedSessions": completed,
		"missedDelayed":     missedDelayed,
		"totalHistory":      len(history),
	})
}

func (h *TechnicianHandler) ProcedureTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []string{
		"Laser Hair Removal",
		"PRP Treatment",
		"Chemical Peel",
		"Microneedling",
		"Botox Injection",
		"Dermal Fillers",
		"Acne Treatment",
		"Pigmentation Treatment",
		"Hydrafacial",
		"LED Light Therapy",
	})
}

func (h *TechnicianHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	doctors, err := h.staff.ListStaff(r.Context(), tc.ClientID(), repository.StaffFilters{Role: "doctor"})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type doctorInfo struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	out := []doctorInfo{}
	for _, d := range doctors {
		out = append(out, doctorInfo{ID: d.ID, Name: d.Name})
	}
	writeJSON(w, http.StatusOK, out)
}
