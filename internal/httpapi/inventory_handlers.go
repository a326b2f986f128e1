package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// InventoryHandler covers products, stock movements and the inventory
// dashboard. Every stock change writes a matching inventory log row.
type InventoryHandler struct {
	inventory repository.InventoryRepository
	logger    *zap.Logger
}

func NewInventoryHandler(inventory repository.InventoryRepository, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, logger: logger}
}

func (rt *Router) RegisterInventoryRoutes(h *InventoryHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("inventory", "Inventory", next)
	}
	rt.Handle("GET /api/inventory/products", gate(h.ListProducts))
	rt.Handle("GET /api/inventory/products/{id}", gate(h.GetProduct))
	rt.Handle("POST /api/inventory/products/{id}/add-stock", gate(h.AddStock))
	rt.Handle("POST /api/inventory/products/{id}/deduct", gate(h.Deduct))
	rt.Handle("POST /api/inventory/products/adjust", gate(h.Adjust))
	rt.Handle("GET /api/inventory/logs", gate(h.Logs))
	rt.Handle("GET /api/inventory/stats", gate(h.Stats))
	rt.Handle("GET /api/inventory/vendors", gate(h.Vendors))
	rt.Handle("GET /api/inventory/treatment-types", gate(h.TreatmentTypes))
}

func (h *InventoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()
	filter := repository.ProductFilters{
		Category: filterValue(q.Get("category")),
		Search:   q.Get("search"),
	}
	products, err := h.inventory.ListProducts(r.Context(), tc.ClientID(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Stock-level banding is computed here; it compares two columns per
	// row and the per-clinic product list is small.
	if level := filterValue(q.Get("stockLevel")); level != "" {
		filtered := products[:0]
		for _, p := range products {
			highMark := float64(p.MaxStockLevel) * 0.8
			switch level {
			case "low":
				if p.CurrentStock <= p.MinStockLevel {
					filtered = append(filtered, p)
				}
			case "normal":
				if p.CurrentStock > p.MinStockLevel && float64(p.CurrentStock) <= highMark {
					filtered = append(filtered, p)
				}
			case "high":
				if float64(p.CurrentStock) > highMark {
					filtered = append(filtered, p)
				}
			}
		}
		products = filtered
	}

	if from, to := q.Get("expiryFrom"), q.Get("expiryTo"); from != "" && to != "" {
		filtered := products[:0]
		for _, p := range products {
			if p.ExpiryDate != "" && p.ExpiryDate >= from && p.ExpiryDate <= to {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *InventoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	product, err := h.inventory.GetProduct(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Valid quantity is required")
		return
	}

	product, err := h.inventory.GetProduct(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	previous := product.CurrentStock
	product.CurrentStock = previous + req.Quantity
	product.UpdatedAt = nowRFC3339()
	if err := h.inventory.UpdateProduct(r.Context(), product); err != nil {
		writeRepoError(w, err)
		return
	}

	h.writeLog(r, &domain.InventoryLog{
		ClientID:      tc.ClientID(),
		ProductID:     product.ID,
		ProductName:   product.Name,
		Type:          "stock-in",
		Quantity:      req.Quantity,
		PreviousStock: previous,
		NewStock:      product.CurrentStock,
		Reason:        "Stock added",
		PerformedBy:   performedBy(r),
		CreatedAt:     product.UpdatedAt,
		Notes:         req.Notes,
	})

	writeJSON(w, http.StatusOK, product)
}

func (h *InventoryHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		Quantity    int    `json:"quantity"`
		Reason      string `json:"reason"`
		TreatmentID string `json:"treatmentId"`
		PatientName string `json:"patientName"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Valid quantity is required")
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "Reason is required")
		return
	}

	product, err := h.inventory.GetProduct(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	previous := product.CurrentStock
	if previous < req.Quantity {
		// Rejected before any write; stock is untouched.
		writeError(w, http.StatusBadRequest, "Insufficient stock")
		return
	}

	now := nowRFC3339()
	product.CurrentStock = previous - req.Quantity
	product.LastUsed = now
	product.UpdatedAt = now
	if err := h.inventory.UpdateProduct(r.Context(), product); err != nil {
		writeRepoError(w, err)
		return
	}

	h.writeLog(r, &domain.InventoryLog{
		ClientID:      tc.ClientID(),
		ProductID:     product.ID,
		ProductName:   product.Name,
		Type:          "auto-deduct",
		Quantity:      req.Quantity,
		PreviousStock: previous,
		NewStock:      product.CurrentStock,
		Reason:        req.Reason,
		TreatmentID:   req.TreatmentID,
		PatientName:   req.PatientName,
		PerformedBy:   "System",
		CreatedAt:     now,
	})

	writeJSON(w, http.StatusOK, product)
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Type      string `json:"type"`
		Reason    string `json:"reason"`
		Notes     string `json:"notes"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Product ID and valid quantity are required")
		return
	}
	if req.Type != "add" && req.Type != "remove" {
		writeError(w, http.StatusBadRequest, "Valid adjustment type (add/remove) is required")
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "Reason is required")
		return
	}

	product, err := h.inventory.GetProduct(r.Context(), tc.ClientID(), req.ProductID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	previous := product.CurrentStock
	if req.Type == "add" {
		product.CurrentStock = previous + req.Quantity
	} else {
		if previous < req.Quantity {
			writeError(w, http.StatusBadRequest, "Stock cannot be negative")
			return
		}
		product.CurrentStock = previous - req.Quantity
	}
	product.UpdatedAt = nowRFC3339()

	if err := h.inventory.UpdateProduct(r.Context(), product); err != nil {
		writeRepoError(w, err)
		return
	}

	h.writeLog(r, &domain.InventoryLog{
		ClientID:      tc.ClientID(),
		ProductID:     product.ID,
		ProductName:   product.Name,
		Type:          "adjustment",
		Quantity:      req.Quantity,
		PreviousStock: previous,
		NewStock:      product.CurrentStock,
		Reason:        req.Reason,
		PerformedBy:   performedBy(r),
		CreatedAt:     product.UpdatedAt,
		Notes:         req.Notes,
	})

	writeJSON(w, http.StatusOK, product)
}

func (h *InventoryHandler) Logs(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	filter := repository.InventoryLogFilters{
		ProductID: r.URL.Query().Get("productId"),
		Type:      filterValue(r.URL.Query().Get("type")),
	}
	logs, err := h.inventory.ListLogs(r.Context(), tc.ClientID(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *InventoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	products, err := h.inventory.ListProducts(r.Context(), tc.ClientID(), repository.ProductFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logs, err := h.inventory.ListLogs(r.Context(), tc.ClientID(), repository.InventoryLogFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	thirtyDays := time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	day := today()

	var totalProducts, lowStock, expiringSoon int
	var totalValue float64
	categories := map[string]struct{}{}
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		totalProducts++
		if p.CurrentStock <= p.MinStockLevel {
			lowStock++
		}
		if p.ExpiryDate != "" && p.ExpiryDate <= thirtyDays {
			expiringSoon++
		}
		totalValue += float64(p.CurrentStock) * p.CostPrice
		categories[p.Category] = struct{}{}
	}

	autoDeductToday := 0
	for _, l := range logs {
		if l.Type == "auto-deduct" && len(l.CreatedAt) >= len(day) && l.CreatedAt[:len(day)] == day {
			autoDeductToday++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalProducts":   totalProducts,
		"lowStockAlerts":  lowStock,
		"expiringSoon":    expiringSoon,
		"autoDeductToday": autoDeductToday,
		"totalValue":      totalValue,
		"categoriesCount": len(categories),
	})
}

func (h *InventoryHandler) Vendors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []string{
		"MedSupply Corp",
		"Healthcare Solutions Ltd",
		"BioMed Distributors",
		"Pharma Plus",
		"Medical Equipment Co",
		"Aesthetic Supplies Inc",
	})
}

func (h *InventoryHandler) TreatmentTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []string{
		"Laser Hair Removal",
		"PRP Treatment",
		"Chemical Peel",
		"Microneedling",
		"Botox Injection",
		"Dermal Fillers",
		"Acne Treatment",
		"Consultation",
	})
}

// writeLog records a stock movement; a failed log write is reported but
// never rolls back the stock change.
func (h *InventoryHandler) writeLog(r *http.Request, log *domain.InventoryLog) {
	if _, err := h.inventory.CreateLog(r.Context(), log); err != nil {
		h.logger.Warn("inventory log write failed", zap.Error(err))
	}
}

// performedBy names the verified caller when a role gate ran, otherwise
// the generic actor label the audit trail uses.
func performedBy(r *http.Request) string {
	if p := identityFrom(r.Context()); p != nil {
		return p.Name
	}
	return "Current User"
}
