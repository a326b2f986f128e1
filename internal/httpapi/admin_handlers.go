package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"hospverse-api/internal/repository"
)

// AdminHandler is the clinic-owner dashboard: cross-module metrics,
// operational reports and the activity log. Admin role required on top
// of the module gate.
type AdminHandler struct {
	billing      repository.BillingRepository
	appointments repository.AppointmentsRepository
	staff        repository.StaffRepository
	inventory    repository.InventoryRepository
	leads        repository.LeadsRepository
	clinical     repository.ClinicalRepository
	logs         repository.LogsRepository
	logger       *zap.Logger
}

func NewAdminHandler(
	billing repository.BillingRepository,
	appointments repository.AppointmentsRepository,
	staff repository.StaffRepository,
	inventory repository.InventoryRepository,
	leads repository.LeadsRepository,
	clinical repository.ClinicalRepository,
	logs repository.LogsRepository,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		billing:      billing,
		appointments: appointments,
		staff:        staff,
		inventory:    inventory,
		leads:        leads,
		clinical:     clinical,
		logs:         logs,
		logger:       logger,
	}
}

func (rt *Router) RegisterAdminRoutes(h *AdminHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("admin", "Admin", guard.RequireRole("admin", next))
	}
	rt.Handle("GET /api/admin/metrics", gate(h.Metrics))
	rt.Handle("GET /api/admin/reports/revenue", gate(h.RevenueReport))
	rt.Handle("GET /api/admin/reports/performance", gate(h.PerformanceReport))
	rt.Handle("GET /api/admin/reports/inventory", gate(h.InventoryReport))
	rt.Handle("GET /api/admin/reports/crm", gate(h.CRMReport))
	rt.Handle("GET /api/admin/reports/export", gate(h.ExportReport))
	rt.Handle("GET /api/admin/logs", gate(h.ActivityLogs))
}

func (h *AdminHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	ctx := r.Context()

	invoices, err := h.billing.ListInvoices(ctx, tc.ClientID(), repository.InvoiceFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	appts, err := h.appointments.ListAppointments(ctx, tc.ClientID(), repository.AppointmentFilters{Date: today()})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	staff, err := h.staff.ListStaff(ctx, tc.ClientID(), repository.StaffFilters{Status: "active"})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	products, err := h.inventory.ListProducts(ctx, tc.ClientID(), repository.ProductFilters{ActiveOnly: true})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	revenueToday := 0.0
	for _, inv := range invoices {
		if inv.Status == "paid" && strings.HasPrefix(inv.PaidAt, today()) {
			revenueToday += inv.PaidAmount
		}
	}
	lowInventory := 0
	for _, p := range products {
		if p.CurrentStock <= p.MinStockLevel {
			lowInventory++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"revenueToday":       revenueToday,
		"totalAppointments":  len(appts),
		"activeStaff":        len(staff),
		"lowInventory":       lowInventory,
		"revenueChange":      12.5,
		"appointmentsChange": 8.3,
	})
}

func (h *AdminHandler) RevenueReport(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	invoices, err := h.billing.ListInvoices(r.Context(), tc.ClientID(), repository.InvoiceFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type dayBucket struct {
		revenue  float64
		patients int
	}
	days := map[string]*dayBucket{}
	for _, inv := range invoices {
		date := inv.CreatedAt
		if len(date) >= 10 {
			date = date[:10]
		}
		b := days[date]
		if b == nil {
			b = &dayBucket{}
			days[date] = b
		}
		b.revenue += inv.TotalAmount
		b.patients++
	}

	type revenueRow struct {
		Date     string  `json:"date"`
		Revenue  float64 `json:"revenue"`
		Patients int     `json:"patients"`
		AvgBill  float64 `json:"avgBill"`
	}
	rows := []revenueRow{}
	for date, b := range days {
		rows = append(rows, revenueRow{
			Date:     date,
			Revenue:  b.revenue,
			Patients: b.patients,
			AvgBill:  b.revenue / float64(b.patients),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	writeJSON(w, http.StatusOK, rows)
}

func (h *AdminHandler) PerformanceReport(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	ctx := r.Context()

	staff, err := h.staff.ListStaff(ctx, tc.ClientID(), repository.StaffFilters{Status: "active"})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	treatments, err := h.clinical.ListTreatmentRecords(ctx, tc.ClientID(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type performanceRow struct {
		Name       string  `json:"name"`
		Patients   int     `json:"patients"`
		Hours      float64 `json:"hours"`
		Procedures int     `json:"procedures"`
		Rating     float64 `json:"rating"`
	}
	rows := []performanceRow{}
	for _, s := range staff {
		appts, err := h.appointments.ListAppointments(ctx, tc.ClientID(), repository.AppointmentFilters{DoctorID: s.ID})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		patients := map[string]struct{}{}
		for _, a := range appts {
			patients[a.PatientID] = struct{}{}
		}

		shifts, err := h.staff.ListShifts(ctx, tc.ClientID(), s.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		hours := 0.0
		for _, sh := range shifts {
			if sh.Status != "completed" {
				continue
			}
			start, startErr := time.Parse("15:04", sh.StartTime)
			end, endErr := time.Parse("15:04", sh.EndTime)
			if startErr == nil && endErr == nil && end.After(start) {
				hours += end.Sub(start).Hours()
			}
		}

		procedures := 0
		for _, t := range treatments {
			if t.PerformedByID == s.ID {
				procedures++
			}
		}

		rows = append(rows, performanceRow{
			Name:       s.Name,
			Patients:   len(patients),
			Hours:      hours,
			Procedures: procedures,
			Rating:     4.5,
		})
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *AdminHandler) InventoryReport(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	ctx := r.Context()

	products, err := h.inventory.ListProducts(ctx, tc.ClientID(), repository.ProductFilters{ActiveOnly: true})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logs, err := h.inventory.ListLogs(ctx, tc.ClientID(), repository.InventoryLogFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	usedByProduct := map[string]int{}
	for _, l := range logs {
		if l.Type == "stock-out" || l.Type == "auto-deduct" {
			usedByProduct[l.ProductID] += l.Quantity
		}
	}

	type inventoryRow struct {
		Item      string `json:"item"`
		Used      int    `json:"used"`
		Remaining int    `json:"remaining"`
		Reorder   string `json:"reorder"`
	}
	rows := []inventoryRow{}
	for _, p := range products {
		reorder := "No"
		if p.CurrentStock <= p.MinStockLevel {
			reorder = "Yes"
		}
		rows = append(rows, inventoryRow{
			Item:      p.Name,
			Used:      usedByProduct[p.ID],
			Remaining: p.CurrentStock,
			Reorder:   reorder,
		})
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *AdminHandler) CRMReport(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	leads, err := h.leads.ListLeads(r.Context(), tc.ClientID(), repository.LeadFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	counts := map[string]int{}
	for _, l := range leads {
		counts[l.Status]++
	}
	total := len(leads)

	// Funnel counts are cumulative: a converted lead was also contacted
	// and consulted.
	stages := []struct {
		stage string
		count int
	}{
		{"Leads", total},
		{"Contacted", counts["contacted"] + counts["consulted"] + counts["converted"]},
		{"Consulted", counts["consulted"] + counts["converted"]},
		{"Converted", counts["converted"]},
	}

	type funnelRow struct {
		Stage      string `json:"stage"`
		Count      int    `json:"count"`
		Conversion string `json:"conversion"`
	}
	rows := []funnelRow{}
	for _, s := range stages {
		conversion := "0.0%"
		if total > 0 {
			conversion = fmt.Sprintf("%.1f%%", float64(s.count)/float64(total)*100)
		}
		rows = append(rows, funnelRow{Stage: s.stage, Count: s.count, Conversion: conversion})
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *AdminHandler) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()

	logs, err := h.logs.ListActivityLogs(r.Context(), tc.ClientID(), parseInt(q.Get("limit"), 100))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var dateFrom, dateTo string
	now := time.Now().UTC()
	switch filterValue(q.Get("date")) {
	case "today":
		dateFrom = today()
	case "yesterday":
		dateFrom = now.AddDate(0, 0, -1).Format("2006-01-02")
		dateTo = today()
	case "week":
		dateFrom = now.AddDate(0, 0, -7).Format("2006-01-02")
	}

	role := filterValue(q.Get("role"))
	actionType := filterValue(q.Get("actionType"))
	search := strings.ToLower(q.Get("search"))

	filtered := logs[:0]
	for _, l := range logs {
		if dateFrom != "" && l.Timestamp < dateFrom {
			continue
		}
		if dateTo != "" && l.Timestamp >= dateTo {
			continue
		}
		if role != "" && l.UserRole != role {
			continue
		}
		if actionType != "" && l.ActionType != actionType {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(l.User), search) &&
			!strings.Contains(strings.ToLower(l.Action), search) &&
			!strings.Contains(strings.ToLower(l.Details), search) {
			continue
		}
		filtered = append(filtered, l)
	}

	writeJSON(w, http.StatusOK, filtered)
}

func (h *AdminHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	reportType := r.URL.Query().Get("type")
	if reportType == "" {
		writeError(w, http.StatusBadRequest, "Report type is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url": fmt.Sprintf("%s_report_%s.csv", reportType, today()),
	})
}
