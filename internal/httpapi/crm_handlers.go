package httpapi

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// CRMHandler tracks leads through the funnel new -> contacted ->
// consulted -> converted/dropped. Status and note histories are
// append-only arrays on the lead record.
type CRMHandler struct {
	leads  repository.LeadsRepository
	users  repository.UsersRepository
	logger *zap.Logger
}

func NewCRMHandler(leads repository.LeadsRepository, users repository.UsersRepository, logger *zap.Logger) *CRMHandler {
	return &CRMHandler{leads: leads, users: users, logger: logger}
}

func (rt *Router) RegisterCRMRoutes(h *CRMHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("crm", "CRM", next)
	}
	rt.Handle("GET /api/crm/leads", gate(h.ListLeads))
	rt.Handle("POST /api/crm/leads", gate(h.CreateLead))
	rt.Handle("GET /api/crm/leads/{id}", gate(h.GetLead))
	rt.Handle("PATCH /api/crm/leads/{id}/status", gate(h.UpdateStatus))
	rt.Handle("POST /api/crm/leads/{id}/notes", gate(h.AddNote))
	rt.Handle("POST /api/crm/leads/{id}/convert", gate(h.Convert))
	rt.Handle("POST /api/crm/leads/{id}/drop", gate(h.Drop))
	rt.Handle("GET /api/crm/converted", gate(h.ListConverted))
	rt.Handle("GET /api/crm/stats", gate(h.Stats))
	rt.Handle("GET /api/crm/users", gate(h.CRMUsers))
}

func (h *CRMHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()
	filter := repository.LeadFilters{
		Status:     filterValue(q.Get("status")),
		Source:     filterValue(q.Get("source")),
		AssignedTo: filterValue(q.Get("assignedTo")),
		Search:     q.Get("search"),
	}
	leads, err := h.leads.ListLeads(r.Context(), tc.ClientID(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if from, to := q.Get("dateFrom"), q.Get("dateTo"); from != "" && to != "" {
		filtered := leads[:0]
		for _, l := range leads {
			if l.CreatedAt >= from && l.CreatedAt <= to {
				filtered = append(filtered, l)
			}
		}
		leads = filtered
	}

	writeJSON(w, http.StatusOK, leads)
}

func (h *CRMHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var lead domain.Lead
	if err := readBodyJSON(r, maxBodyBytes, &lead); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := nowRFC3339()
	lead.ClientID = tc.ClientID()
	lead.Status = "new"
	lead.CreatedAt = now
	lead.UpdatedAt = now
	lead.StatusHistory = []domain.LeadStatusEntry{{
		ID:        uuid.NewString(),
		Status:    "new",
		ChangedBy: "System",
		ChangedAt: now,
		Notes:     fmt.Sprintf("Lead created from %s", lead.Source),
	}}
	lead.NotesHistory = []domain.LeadNoteEntry{}
	if lead.Notes != "" {
		lead.NotesHistory = append(lead.NotesHistory, domain.LeadNoteEntry{
			ID:      uuid.NewString(),
			Note:    lead.Notes,
			AddedBy: lead.AssignedTo,
			AddedAt: now,
		})
	}

	created, err := h.leads.CreateLead(r.Context(), &lead)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CRMHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	lead, err := h.leads.GetLead(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *CRMHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	lead, err := h.leads.GetLead(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	now := nowRFC3339()
	lead.Status = req.Status
	lead.UpdatedAt = now
	lead.StatusHistory = append(lead.StatusHistory, domain.LeadStatusEntry{
		ID:        uuid.NewString(),
		Status:    req.Status,
		ChangedBy: performedBy(r),
		ChangedAt: now,
		Notes:     req.Notes,
	})
	if req.Status == "converted" {
		lead.ConvertedAt = now
	}

	if err := h.leads.UpdateLead(r.Context(), lead); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *CRMHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Note string `json:"note"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Note == "" {
		writeError(w, http.StatusBadRequest, "Note is required")
		return
	}

	lead, err := h.leads.GetLead(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	now := nowRFC3339()
	lead.UpdatedAt = now
	lead.NotesHistory = append(lead.NotesHistory, domain.LeadNoteEntry{
		ID:      uuid.NewString(),
		Note:    req.Note,
		AddedBy: performedBy(r),
		AddedAt: now,
	})

	if err := h.leads.UpdateLead(r.Context(), lead); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *CRMHandler) Convert(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	lead, err := h.leads.GetLead(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	now := nowRFC3339()
	lead.Status = "converted"
	lead.UpdatedAt = now
	lead.ConvertedAt = now
	lead.StatusHistory = append(lead.StatusHistory, domain.LeadStatusEntry{
		ID:        uuid.NewString(),
		Status:    "converted",
		ChangedBy: performedBy(r),
		ChangedAt: now,
		Notes:     "Lead converted to patient",
	})

	if err := h.leads.UpdateLead(r.Context(), lead); err != nil {
		writeRepoError(w, err)
		return
	}

	converted := &domain.ConvertedLead{
		ClientID:    tc.ClientID(),
		LeadID:      lead.ID,
		PatientID:   fmt.Sprintf("p%d", time.Now().Unix()),
		FullName:    lead.FullName,
		Mobile:      lead.Mobile,
		Email:       lead.Email,
		ConvertedAt: now,
		ConvertedBy: performedBy(r),
		Source:      lead.Source,
	}
	record, err := h.leads.CreateConvertedLead(r.Context(), converted)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *CRMHandler) Drop(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Reason string `json:"reason"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "Reason is required")
		return
	}

	lead, err := h.leads.GetLead(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	now := nowRFC3339()
	lead.Status = "dropped"
	lead.UpdatedAt = now
	lead.DropReason = req.Reason
	lead.StatusHistory = append(lead.StatusHistory, domain.LeadStatusEntry{
		ID:        uuid.NewString(),
		Status:    "dropped",
		ChangedBy: performedBy(r),
		ChangedAt: now,
		Notes:     fmt.Sprintf("Lead dropped: %s", req.Reason),
	})

	if err := h.leads.UpdateLead(r.Context(), lead); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *CRMHandler) ListConverted(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	converted, err := h.leads.ListConvertedLeads(r.Context(), tc.ClientID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, converted)
}

func (h *CRMHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	leads, err := h.leads.ListLeads(r.Context(), tc.ClientID(), repository.LeadFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	oneDayAgo := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	var converted, newLeads, contacted, consulted, dropped, whatsapp, followUpsDue int
	for _, l := range leads {
		switch l.Status {
		case "converted":
			converted++
		case "new":
			newLeads++
		case "contacted":
			contacted++
			// A contacted lead untouched for a day is due a follow-up.
			if l.UpdatedAt < oneDayAgo {
				followUpsDue++
			}
		case "consulted":
			consulted++
		case "dropped":
			dropped++
		}
		if l.Source == "whatsapp" {
			whatsapp++
		}
	}

	conversionRate := 0
	if len(leads) > 0 {
		conversionRate = int(math.Round(float64(converted) / float64(len(leads)) * 100))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalLeads":     len(leads),
		"converted":      converted,
		"followUpsDue":   followUpsDue,
		"whatsappLeads":  whatsapp,
		"conversionRate": conversionRate,
		"newLeads":       newLeads,
		"contactedLeads": contacted,
		"consultedLeads": consulted,
		"droppedLeads":   dropped,
	})
}

// CRMUsers lists the clinic's active CRM-facing staff profiles.
func (h *CRMHandler) CRMUsers(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	profiles, err := h.users.ListProfiles(r.Context(), tc.ClientID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	crmRoles := map[string]bool{
		"crm_manager":          true,
		"lead_specialist":      true,
		"customer_success":     true,
		"sales_representative": true,
	}
	type crmUser struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	}
	users := []crmUser{}
	for _, p := range profiles {
		if p.IsActive && crmRoles[p.Role] {
			users = append(users, crmUser{ID: p.ID, Name: p.Name, Role: p.Role})
		}
	}
	writeJSON(w, http.StatusOK, users)
}
