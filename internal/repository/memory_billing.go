package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryBillingRepo is the dev/test fallback for invoices and payments.
type MemoryBillingRepo struct {
	mu       sync.RWMutex
	invoices map[string]domain.Invoice
	payments map[string]domain.Payment
}

func NewMemoryBillingRepo() *MemoryBillingRepo {
	return &MemoryBillingRepo{
		invoices: map[string]domain.Invoice{},
		payments: map[string]domain.Payment{},
	}
}

var _ BillingRepository = (*MemoryBillingRepo)(nil)

func cloneInvoice(inv domain.Invoice) *domain.Invoice {
	out := inv
	out.Procedures = append([]domain.InvoiceLine(nil), inv.Procedures...)
	return &out
}

func (r *MemoryBillingRepo) ListInvoices(_ context.Context, clientID string, filter InvoiceFilters) ([]*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	invoices := []*domain.Invoice{}
	for _, inv := range r.invoices {
		if inv.ClientID != clientID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.PatientID != "" && inv.PatientID != filter.PatientID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(inv.InvoiceNumber), needle) &&
				!strings.Contains(strings.ToLower(inv.PatientName), needle) {
				continue
			}
		}
		if filter.DateFrom != "" && inv.CreatedAt < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && inv.CreatedAt > filter.DateTo {
			continue
		}
		invoices = append(invoices, cloneInvoice(inv))
	}
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].CreatedAt > invoices[j].CreatedAt })
	return invoices, nil
}

func (r *MemoryBillingRepo) GetInvoice(_ context.Context, clientID, id string) (*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok || inv.ClientID != clientID {
		return nil, fmt.Errorf("invoice not found: id '%s' %w", id, ErrNotFound)
	}
	return cloneInvoice(inv), nil
}

func (r *MemoryBillingRepo) CreateInvoice(_ context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if inv == nil || inv.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Procedures == nil {
		inv.Procedures = []domain.InvoiceLine{}
	}
	r.invoices[inv.ID] = *cloneInvoice(*inv)
	return inv, nil
}

func (r *MemoryBillingRepo) UpdateInvoice(_ context.Context, inv *domain.Invoice) error {
	if inv == nil || inv.ID == "" {
		return fmt.Errorf("invoice id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.invoices[inv.ID]
	if !ok || existing.ClientID != inv.ClientID {
		return fmt.Errorf("invoice not found: id '%s' %w", inv.ID, ErrNotFound)
	}
	r.invoices[inv.ID] = *cloneInvoice(*inv)
	return nil
}

func (r *MemoryBillingRepo) CountInvoicesForMonth(_ context.Context, clientID string, year, month int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, inv := range r.invoices {
		if inv.ClientID != clientID {
			continue
		}
		t, err := time.Parse(time.RFC3339, inv.CreatedAt)
		if err != nil {
			continue
		}
		if t.Year() == year && int(t.Month()) == month {
			count++
		}
	}
	return count, nil
}

func (r *MemoryBillingRepo) ListPayments(_ context.Context, clientID, invoiceID string) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payments := []*domain.Payment{}
	for _, p := range r.payments {
		if p.ClientID != clientID {
			continue
		}
		if invoiceID != "" && p.InvoiceID != invoiceID {
			continue
		}
		out := p
		payments = append(payments, &out)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaidAt > payments[j].PaidAt })
	return payments, nil
}

func (r *MemoryBillingRepo) CreatePayment(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	if p == nil || p.ClientID == "" || p.InvoiceID == "" {
		return nil, fmt.Errorf("client_id and invoice_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.payments[p.ID] = *p
	return p, nil
}
