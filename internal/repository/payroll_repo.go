package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// PayrollRepository covers payslips, salary structures and leave balances.
type PayrollRepository interface {
	ListPayslips(ctx context.Context, clientID string, filter PayslipFilters) ([]*domain.Payslip, error)
	GetPayslip(ctx context.Context, clientID, id string) (*domain.Payslip, error)
	CreatePayslip(ctx context.Context, p *domain.Payslip) (*domain.Payslip, error)

	GetSalaryStructure(ctx context.Context, clientID, staffID string) (*domain.SalaryStructure, error)
	// UpsertSalaryStructure keys on (client_id, staff_id); one structure
	// per staff member.
	UpsertSalaryStructure(ctx context.Context, s *domain.SalaryStructure) (*domain.SalaryStructure, error)

	GetLeaveBalance(ctx context.Context, clientID, staffID string) (*domain.LeaveBalance, error)
	UpsertLeaveBalance(ctx context.Context, b *domain.LeaveBalance) (*domain.LeaveBalance, error)
}

// PayslipFilters narrows ListPayslips. Month is 0-11, matching the
// stored convention.
type PayslipFilters struct {
	StaffID string
	Month   *int
	Year    *int
	Status  string // pending | processed
}
