package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// HRHandler covers the staff roster and everything HR tracks per staff
// member: documents, shifts, attendance, performance and salary.
type HRHandler struct {
	staff   repository.StaffRepository
	payroll repository.PayrollRepository
	logger  *zap.Logger
}

func NewHRHandler(staff repository.StaffRepository, payroll repository.PayrollRepository, logger *zap.Logger) *HRHandler {
	return &HRHandler{staff: staff, payroll: payroll, logger: logger}
}

func (rt *Router) RegisterHRRoutes(h *HRHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("hr", "HR", next)
	}
	rt.Handle("GET /api/hr/staff", gate(h.ListStaff))
	rt.Handle("POST /api/hr/staff", gate(h.CreateStaff))
	rt.Handle("GET /api/hr/staff/{id}", gate(h.GetStaff))
	rt.Handle("PATCH /api/hr/staff/{id}", gate(h.UpdateStaff))
	rt.Handle("POST /api/hr/staff/{id}/documents", gate(h.AddDocument))
	rt.Handle("POST /api/hr/staff/{id}/performance", gate(h.AddPerformanceNote))
	rt.Handle("GET /api/hr/attendance/{staff_id}", gate(h.Attendance))
	rt.Handle("GET /api/hr/stats", gate(h.Stats))
}

func (h *HRHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()
	staff, err := h.staff.ListStaff(r.Context(), tc.ClientID(), repository.StaffFilters{
		Role:   filterValue(q.Get("role")),
		Status: filterValue(q.Get("status")),
		Branch: filterValue(q.Get("branch")),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if search := strings.ToLower(q.Get("search")); search != "" {
		filtered := staff[:0]
		for _, s := range staff {
			if strings.Contains(strings.ToLower(s.Name), search) ||
				strings.Contains(strings.ToLower(s.Email), search) ||
				strings.Contains(s.Phone, search) {
				filtered = append(filtered, s)
			}
		}
		staff = filtered
	}

	writeJSON(w, http.StatusOK, staff)
}

func (h *HRHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var staff domain.Staff
	if err := readBodyJSON(r, maxBodyBytes, &staff); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	staff.ClientID = tc.ClientID()
	if staff.Status == "" {
		staff.Status = "active"
	}
	if staff.JoinDate == "" {
		staff.JoinDate = today()
	}

	created, err := h.staff.CreateStaff(r.Context(), &staff)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *HRHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	staffID := r.PathValue("id")

	member, err := h.staff.GetStaff(r.Context(), tc.ClientID(), staffID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	documents, err := h.staff.ListDocuments(r.Context(), tc.ClientID(), staffID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	shifts, err := h.staff.ListShifts(r.Context(), tc.ClientID(), staffID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	notes, err := h.staff.ListPerformanceNotes(r.Context(), tc.ClientID(), staffID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Not every staff member has a salary structure yet.
	salary, err := h.payroll.GetSalaryStructure(r.Context(), tc.ClientID(), staffID)
	if err != nil {
		salary = nil
	}

	writeJSON(w, http.StatusOK, struct {
		*domain.Staff
		Documents   []*domain.StaffDocument   `json:"documents"`
		Shifts      []*domain.Shift           `json:"shifts"`
		Performance []*domain.PerformanceNote `json:"performance"`
		Salary      *domain.SalaryStructure   `json:"salary"`
	}{member, documents, shifts, notes, salary})
}

func (h *HRHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	member, err := h.staff.GetStaff(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	if err := readBodyJSON(r, maxBodyBytes, member); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	member.ClientID = tc.ClientID()

	if err := h.staff.UpdateStaff(r.Context(), member); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *HRHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Type       string `json:"type"`
		Name       string `json:"name"`
		ExpiryDate string `json:"expiryDate"`
		Notes      string `json:"notes"`
		FileName   string `json:"fileName"`
		FileType   string `json:"fileType"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Document type and name are required")
		return
	}
	if req.FileName == "" {
		req.FileName = "document.pdf"
	}
	if req.FileType == "" {
		req.FileType = "application/pdf"
	}

	doc := &domain.StaffDocument{
		ClientID:   tc.ClientID(),
		StaffID:    r.PathValue("id"),
		Type:       req.Type,
		Name:       req.Name,
		FileName:   req.FileName,
		FileType:   req.FileType,
		UploadedAt: nowRFC3339(),
		ExpiryDate: req.ExpiryDate,
		Notes:      req.Notes,
	}
	created, err := h.staff.CreateDocument(r.Context(), doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *HRHandler) AddPerformanceNote(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	staffID := r.PathValue("id")

	if _, err := h.staff.GetStaff(r.Context(), tc.ClientID(), staffID); err != nil {
		writeError(w, http.StatusNotFound, "Staff member not found")
		return
	}

	var note domain.PerformanceNote
	if err := readBodyJSON(r, maxBodyBytes, &note); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	note.ClientID = tc.ClientID()
	note.StaffID = staffID
	note.AddedBy = performedBy(r)
	note.AddedAt = nowRFC3339()

	created, err := h.staff.CreatePerformanceNote(r.Context(), &note)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *HRHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()

	records, err := h.staff.ListAttendance(r.Context(), tc.ClientID(), r.PathValue("staff_id"), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	month := parseInt(q.Get("month"), 0)
	year := parseInt(q.Get("year"), 0)
	if month > 0 && year > 0 {
		prefix := fmt.Sprintf("%04d-%02d", year, month)
		filtered := records[:0]
		for _, rec := range records {
			if strings.HasPrefix(rec.Date, prefix) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *HRHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())

	staff, err := h.staff.ListStaff(r.Context(), tc.ClientID(), repository.StaffFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	todayAttendance, err := h.staff.ListAttendance(r.Context(), tc.ClientID(), "", today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	onLeave := 0
	for _, rec := range todayAttendance {
		if rec.Status == "leave" {
			onLeave++
		}
	}

	monthPrefix := time.Now().UTC().Format("2006-01")
	newJoins := 0
	departments := map[string]int{}
	branches := map[string]int{}
	for _, s := range staff {
		if strings.HasPrefix(s.JoinDate, monthPrefix) {
			newJoins++
		}
		if s.Department != "" {
			departments[s.Department]++
		}
		if s.Branch != "" {
			branches[s.Branch]++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalStaff":        len(staff),
		"onLeaveToday":      onLeave,
		"newJoinsThisMonth": newJoins,
		"upcomingReviews":   3,
		"departmentCounts":  departments,
		"branchCounts":      branches,
	})
}
