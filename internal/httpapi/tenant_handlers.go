package httpapi

import "net/http"

// TenantHandler exposes the resolved clinic record to the frontend shell.
type TenantHandler struct{}

func NewTenantHandler() *TenantHandler { return &TenantHandler{} }

func (rt *Router) RegisterTenantRoutes(h *TenantHandler) {
	rt.Handle("GET /api/tenant", h.GetTenant)
}

func (h *TenantHandler) GetTenant(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	if !tc.Resolved() {
		writeError(w, http.StatusNotFound, "Tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, tc.Client)
}
