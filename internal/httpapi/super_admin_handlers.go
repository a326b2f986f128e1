package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// SuperAdminHandler is the platform operator surface: clinic accounts,
// module toggles, logs, support tickets and platform stats. Routes are
// tenant-exempt and gated on the super_admin role.
type SuperAdminHandler struct {
	clients repository.ClientsRepository
	logs    repository.LogsRepository
	support repository.SupportRepository
	logger  *zap.Logger
}

func NewSuperAdminHandler(clients repository.ClientsRepository, logs repository.LogsRepository, support repository.SupportRepository, logger *zap.Logger) *SuperAdminHandler {
	return &SuperAdminHandler{clients: clients, logs: logs, support: support, logger: logger}
}

func (rt *Router) RegisterSuperAdminRoutes(h *SuperAdminHandler, guard *Guard) {
	role := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireRole("super_admin", next)
	}
	rt.Handle("GET /api/super-admin/clients", role(h.ListClients))
	rt.Handle("POST /api/super-admin/clients", role(h.CreateClient))
	rt.Handle("GET /api/super-admin/clients/{id}", role(h.GetClient))
	rt.Handle("PATCH /api/super-admin/clients/{id}/modules", role(h.ToggleModule))
	rt.Handle("PATCH /api/super-admin/clients/{id}/dashboards", role(h.SetDashboards))
	rt.Handle("PATCH /api/super-admin/clients/{id}/roles", role(h.AssignRolePermissions))
	rt.Handle("PATCH /api/super-admin/clients/{id}/status", role(h.UpdateStatus))
	rt.Handle("GET /api/super-admin/clients/{id}/logs", role(h.ClientUsageLogs))
	rt.Handle("GET /api/super-admin/logs", role(h.SystemLogs))
	rt.Handle("GET /api/super-admin/support", role(h.ListTickets))
	rt.Handle("GET /api/super-admin/support/{id}", role(h.GetTicket))
	rt.Handle("PATCH /api/super-admin/support/{id}", role(h.UpdateTicket))
	rt.Handle("POST /api/super-admin/support/{id}/messages", role(h.AddTicketMessage))
	rt.Handle("GET /api/super-admin/stats", role(h.Stats))
}

func (h *SuperAdminHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ClientFilters{
		Plan:   filterValue(q.Get("plan")),
		Status: filterValue(q.Get("status")),
		Search: q.Get("search"),
	}
	clients, err := h.clients.ListClients(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *SuperAdminHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.clients.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	branches, err := h.clients.ListBranches(r.Context(), client.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*domain.Client
		Branches []*domain.ClientBranch `json:"branches"`
	}{client, branches})
}

func (h *SuperAdminHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		domain.Client
		Branches []domain.ClientBranch `json:"branches"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	req.Client.CreatedAt = now.Format(time.RFC3339)
	if req.Client.ExpiresAt == "" {
		// Subscriptions run for a year unless the operator says otherwise.
		req.Client.ExpiresAt = now.AddDate(1, 0, 0).Format(time.RFC3339)
	}
	req.Client.APIUsage = 0
	req.Client.ActiveUsers = 0

	created, err := h.clients.CreateClient(r.Context(), &req.Client)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for i := range req.Branches {
		req.Branches[i].ClientID = created.ID
		req.Branches[i].CreatedAt = created.CreatedAt
		if _, err := h.clients.CreateBranch(r.Context(), &req.Branches[i]); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *SuperAdminHandler) ToggleModule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Module  string `json:"module"`
		Enabled bool   `json:"enabled"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Module == "" {
		writeError(w, http.StatusBadRequest, "Module name is required")
		return
	}

	client, err := h.clients.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	enabled := make([]string, 0, len(client.ModulesEnabled)+1)
	for _, m := range client.ModulesEnabled {
		if m != req.Module {
			enabled = append(enabled, m)
		}
	}
	if req.Enabled {
		enabled = append(enabled, req.Module)
	}
	client.ModulesEnabled = enabled

	if err := h.clients.UpdateClient(r.Context(), client); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *SuperAdminHandler) SetDashboards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dashboards []string `json:"dashboards"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := h.clients.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	// The dashboard list replaces every module except the dashboard itself.
	enabled := []string{}
	if client.HasModule("dashboard") {
		enabled = append(enabled, "dashboard")
	}
	for _, d := range req.Dashboards {
		if d != "dashboard" {
			enabled = append(enabled, d)
		}
	}
	client.ModulesEnabled = enabled

	if err := h.clients.UpdateClient(r.Context(), client); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *SuperAdminHandler) AssignRolePermissions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role == "" {
		writeError(w, http.StatusBadRequest, "Role is required")
		return
	}

	client, err := h.clients.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	if client.RolePermissions == nil {
		client.RolePermissions = map[string][]string{}
	}
	client.RolePermissions[req.Role] = req.Permissions

	if err := h.clients.UpdateClient(r.Context(), client); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role":        req.Role,
		"permissions": req.Permissions,
	})
}

func (h *SuperAdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	clientID := r.PathValue("id")
	if err := h.clients.SetClientStatus(r.Context(), clientID, req.Status); err != nil {
		writeRepoError(w, err)
		return
	}
	client, err := h.clients.GetClient(r.Context(), clientID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *SuperAdminHandler) ClientUsageLogs(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 0)
	logs, err := h.logs.ListUsageLogs(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *SuperAdminHandler) SystemLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs, err := h.logs.ListSystemLogs(r.Context(), q.Get("client_id"), filterValue(q.Get("type")), parseInt(q.Get("limit"), 0))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *SuperAdminHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.support.ListTickets(r.Context(), "", filterValue(r.URL.Query().Get("status")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *SuperAdminHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	h.writeTicketWithMessages(w, r, r.PathValue("id"), http.StatusOK)
}

func (h *SuperAdminHandler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.support.GetTicket(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	// Merge the partial payload over the stored record.
	if err := readBodyJSON(r, maxBodyBytes, ticket); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ticket.UpdatedAt = nowRFC3339()

	if err := h.support.UpdateTicket(r.Context(), ticket); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (h *SuperAdminHandler) AddTicketMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message    string `json:"message"`
		Sender     string `json:"sender"`
		SenderName string `json:"sender_name"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Message == "" || req.Sender == "" || req.SenderName == "" {
		writeError(w, http.StatusBadRequest, "Message, sender, and sender name are required")
		return
	}

	ticketID := r.PathValue("id")
	ticket, err := h.support.GetTicket(r.Context(), ticketID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	msg := &domain.TicketMessage{
		TicketID:   ticketID,
		Message:    req.Message,
		Sender:     req.Sender,
		SenderName: req.SenderName,
		Timestamp:  nowRFC3339(),
	}
	if _, err := h.support.CreateMessage(r.Context(), msg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ticket.UpdatedAt = msg.Timestamp
	if err := h.support.UpdateTicket(r.Context(), ticket); err != nil {
		writeRepoError(w, err)
		return
	}

	h.writeTicketWithMessages(w, r, ticketID, http.StatusOK)
}

func (h *SuperAdminHandler) writeTicketWithMessages(w http.ResponseWriter, r *http.Request, ticketID string, status int) {
	ticket, err := h.support.GetTicket(r.Context(), ticketID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	messages, err := h.support.ListMessages(r.Context(), ticketID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, status, struct {
		*domain.SupportTicket
		Messages []*domain.TicketMessage `json:"messages"`
	}{ticket, messages})
}

// Plan prices used by the platform revenue stat.
const (
	planPriceEnterprise   = 999
	planPriceProfessional = 299
	planPriceBasic        = 99
)

func (h *SuperAdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.ListClients(r.Context(), repository.ClientFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	startOfDay := today() + "T00:00:00Z"
	apiHitsToday, err := h.logs.CountUsageLogsSince(r.Context(), startOfDay)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	tickets, err := h.support.ListTickets(r.Context(), "", "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	openTickets := 0
	for _, t := range tickets {
		if t.Status == "open" || t.Status == "in-progress" {
			openTickets++
		}
	}

	var activeSubs, inactiveTrial, revenue, totalUsers int
	for _, c := range clients {
		if c.Status == "active" || c.Status == "trial" {
			activeSubs++
		}
		if c.Status == "inactive" || c.Status == "trial" {
			inactiveTrial++
		}
		if c.Status == "active" {
			switch c.Plan {
			case "enterprise":
				revenue += planPriceEnterprise
			case "professional":
				revenue += planPriceProfessional
			case "basic":
				revenue += planPriceBasic
			}
		}
		totalUsers += c.ActiveUsers
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalClinics":         len(clients),
		"activeSubscriptions":  activeSubs,
		"apiHitsToday":         apiHitsToday,
		"inactiveTrialClinics": inactiveTrial,
		"revenueThisMonth":     revenue,
		"totalUsers":           totalUsers,
		"openSupportTickets":   openTickets,
	})
}

// filterValue treats the frontend's "all" selector as no filter.
func filterValue(v string) string {
	if v == "all" {
		return ""
	}
	return v
}
