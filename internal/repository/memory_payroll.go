package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryPayrollRepo is the dev/test fallback for payslips, salary
// structures and leave balances.
type MemoryPayrollRepo struct {
	mu       sync.RWMutex
	payslips map[string]domain.Payslip
	salaries map[string]domain.SalaryStructure // keyed by staff_id
	leaves   map[string]domain.LeaveBalance    // keyed by staff_id
}

func NewMemoryPayrollRepo() *MemoryPayrollRepo {
	return &MemoryPayrollRepo{
		payslips: map[string]domain.Payslip{},
		salaries: map[string]domain.SalaryStructure{},
		leaves:   map[string]domain.LeaveBalance{},
	}
}

var _ PayrollRepository = (*MemoryPayrollRepo)(nil)

func (r *MemoryPayrollRepo) ListPayslips(_ context.Context, clientID string, filter PayslipFilters) ([]*domain.Payslip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payslips := []*domain.Payslip{}
	for _, p := range r.payslips {
		if p.ClientID != clientID {
			continue
		}
		if filter.StaffID != "" && p.StaffID != filter.StaffID {
			continue
		}
		if filter.Month != nil && p.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && p.Year != *filter.Year {
			continue
		}
		if filter.Status != "" && p.PaymentStatus != filter.Status {
			continue
		}
		out := p
		payslips = append(payslips, &out)
	}
	sort.Slice(payslips, func(i, j int) bool {
		if payslips[i].Year != payslips[j].Year {
			return payslips[i].Year > payslips[j].Year
		}
		return payslips[i].Month > payslips[j].Month
	})
	return payslips, nil
}

func (r *MemoryPayrollRepo) GetPayslip(_ context.Context, clientID, id string) (*domain.Payslip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payslips[id]
	if !ok || p.ClientID != clientID {
		return nil, fmt.Errorf("payslip not found: id '%s' %w", id, ErrNotFound)
	}
	out := p
	return &out, nil
}

func (r *MemoryPayrollRepo) CreatePayslip(_ context.Context, p *domain.Payslip) (*domain.Payslip, error) {
	if p == nil || p.ClientID == "" || p.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = "pending"
	}
	r.payslips[p.ID] = *p
	return p, nil
}

func (r *MemoryPayrollRepo) GetSalaryStructure(_ context.Context, clientID, staffID string) (*domain.SalaryStructure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.salaries[staffID]
	if !ok || s.ClientID != clientID {
		return nil, fmt.Errorf("salary structure not found: id '%s' %w", staffID, ErrNotFound)
	}
	out := s
	return &out, nil
}

func (r *MemoryPayrollRepo) UpsertSalaryStructure(_ context.Context, s *domain.SalaryStructure) (*domain.SalaryStructure, error) {
	if s == nil || s.ClientID == "" || s.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.salaries[s.StaffID]; ok {
		s.ID = existing.ID
	} else if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.salaries[s.StaffID] = *s
	return s, nil
}

func (r *MemoryPayrollRepo) GetLeaveBalance(_ context.Context, clientID, staffID string) (*domain.LeaveBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.leaves[staffID]
	if !ok || b.ClientID != clientID {
		return nil, fmt.Errorf("leave balance not found: id '%s' %w", staffID, ErrNotFound)
	}
	out := b
	return &out, nil
}

func (r *MemoryPayrollRepo) UpsertLeaveBalance(_ context.Context, b *domain.LeaveBalance) (*domain.LeaveBalance, error) {
	if b == nil || b.ClientID == "" || b.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.leaves[b.StaffID]; ok {
		b.ID = existing.ID
	} else if b.ID == "" {
		b.ID = uuid.NewString()
	}
	r.leaves[b.StaffID] = *b
	return b, nil
}
