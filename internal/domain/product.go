package domain

// Product aligns with the hosted `products` table.
type Product struct {
	ID                string   `json:"id"`
	ClientID          string   `json:"client_id"`
	Name              string   `json:"name"`
	Category          string   `json:"category"` // consumables | supplies | equipment | ...
	BatchNumber       string   `json:"batch_number,omitempty"`
	Vendor            string   `json:"vendor,omitempty"`
	CostPrice         float64  `json:"cost_price"`
	SellingPrice      float64  `json:"selling_price,omitempty"`
	CurrentStock      int      `json:"current_stock"`
	MinStockLevel     int      `json:"min_stock_level"`
	MaxStockLevel     int      `json:"max_stock_level"`
	Unit              string   `json:"unit,omitempty"`
	ExpiryDate        string   `json:"expiry_date,omitempty"` // YYYY-MM-DD
	ManufacturingDate string   `json:"manufacturing_date,omitempty"`
	Location          string   `json:"location,omitempty"`
	Description       string   `json:"description,omitempty"`
	IsActive          bool     `json:"is_active"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
	LastUsed          string   `json:"last_used,omitempty"`
	AutoDeductEnabled bool     `json:"auto_deduct_enabled"`
	TreatmentTypes    []string `json:"treatment_types,omitempty"`
}

// InventoryLog is one stock movement, written alongside every stock change.
type InventoryLog struct {
	ID            string `json:"id"`
	ClientID      string `json:"client_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Type          string `json:"type"` // stock-in | stock-out | auto-deduct | adjustment
	Quantity      int    `json:"quantity"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	Reason        string `json:"reason,omitempty"`
	TreatmentID   string `json:"treatment_id,omitempty"`
	PatientName   string `json:"patient_name,omitempty"`
	PerformedBy   string `json:"performed_by,omitempty"`
	CreatedAt     string `json:"created_at"`
	Notes         string `json:"notes,omitempty"`
}
