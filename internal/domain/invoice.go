package domain

// InvoiceLine is one billed procedure on an invoice.
type InvoiceLine struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	Description string  `json:"description,omitempty"`
}

// Invoice aligns with the hosted `invoices` table. Balance bookkeeping is
// done by the payment handler, last-write-wins.
type Invoice struct {
	ID             string        `json:"id"`
	InvoiceNumber  string        `json:"invoice_number"`
	ClientID       string        `json:"client_id"`
	PatientID      string        `json:"patient_id,omitempty"`
	PatientName    string        `json:"patient_name"`
	PatientPhone   string        `json:"patient_phone,omitempty"`
	DoctorID       string        `json:"doctor_id,omitempty"`
	DoctorName     string        `json:"doctor_name,omitempty"`
	Procedures     []InvoiceLine `json:"procedures,omitempty"`
	Subtotal       float64       `json:"subtotal"`
	TaxRate        float64       `json:"tax_rate"`
	TaxAmount      float64       `json:"tax_amount"`
	DiscountRate   float64       `json:"discount_rate"`
	DiscountAmount float64       `json:"discount_amount"`
	TotalAmount    float64       `json:"total_amount"`
	PaidAmount     float64       `json:"paid_amount"`
	BalanceAmount  float64       `json:"balance_amount"`
	PaymentMode    string        `json:"payment_mode,omitempty"` // cash | card | upi | ...
	Status         string        `json:"status"`                 // sent | paid | partially-paid | overdue | refunded
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
	DueDate        string        `json:"due_date,omitempty"`
	PaidAt         string        `json:"paid_at,omitempty"`
	RefundAmount   float64       `json:"refund_amount,omitempty"`
	RefundReason   string        `json:"refund_reason,omitempty"`
	RefundedAt     string        `json:"refunded_at,omitempty"`
}

// Payment is one recorded payment against an invoice.
type Payment struct {
	ID            string  `json:"id"`
	InvoiceID     string  `json:"invoice_id"`
	ClientID      string  `json:"client_id"`
	Amount        float64 `json:"amount"`
	PaymentMode   string  `json:"payment_mode"`
	TransactionID string  `json:"transaction_id,omitempty"`
	PaidAt        string  `json:"paid_at"`
	Notes         string  `json:"notes,omitempty"`
}

// ProcedurePrice is a static price-list entry used when composing invoices.
type ProcedurePrice struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
}
