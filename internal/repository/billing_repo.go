package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// BillingRepository covers invoices and their payments.
type BillingRepository interface {
	ListInvoices(ctx context.Context, clientID string, filter InvoiceFilters) ([]*domain.Invoice, error)
	GetInvoice(ctx context.Context, clientID, id string) (*domain.Invoice, error)
	CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *domain.Invoice) error
	// CountInvoicesForMonth feeds invoice-number generation
	// (INV<yy><mm><seq>); the count is per clinic per calendar month.
	CountInvoicesForMonth(ctx context.Context, clientID string, year, month int) (int, error)

	ListPayments(ctx context.Context, clientID, invoiceID string) ([]*domain.Payment, error)
	CreatePayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
}

// InvoiceFilters narrows ListInvoices.
type InvoiceFilters struct {
	Status    string
	PatientID string
	Search    string // invoice number or patient name
	DateFrom  string // YYYY-MM-DD, on created_at
	DateTo    string
}
