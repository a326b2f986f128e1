package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresPayrollRepository implements PayrollRepository over payslips,
// salary_structures and leave_balances.
type PostgresPayrollRepository struct {
	db *sql.DB
}

func NewPostgresPayrollRepository(db *sql.DB) *PostgresPayrollRepository {
	return &PostgresPayrollRepository{db: db}
}

var _ PayrollRepository = (*PostgresPayrollRepository)(nil)

const payslipColumns = `
	id,
	client_id,
	staff_id,
	COALESCE(employee_id, '') AS employee_id,
	COALESCE(month, 0) AS month,
	COALESCE(year, 0) AS year,
	COALESCE(basic_salary, 0) AS basic_salary,
	COALESCE(allowances, 0) AS allowances,
	COALESCE(deductions, 0) AS deductions,
	COALESCE(net_salary, 0) AS net_salary,
	COALESCE(payment_status, 'pending') AS payment_status,
	COALESCE(generated_at::text, '') AS generated_at`

func scanPayslip(row interface{ Scan(...any) error }) (*domain.Payslip, error) {
	var p domain.Payslip
	err := row.Scan(&p.ID, &p.ClientID, &p.StaffID, &p.EmployeeID, &p.Month,
		&p.Year, &p.BasicSalary, &p.Allowances, &p.Deductions, &p.NetSalary,
		&p.PaymentStatus, &p.GeneratedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPayrollRepository) ListPayslips(ctx context.Context, clientID string, filter PayslipFilters) ([]*domain.Payslip, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2

	if filter.StaffID != "" {
		where = append(where, fmt.Sprintf("staff_id = $%d", argIdx))
		args = append(args, filter.StaffID)
		argIdx++
	}
	if filter.Month != nil {
		where = append(where, fmt.Sprintf("month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		where = append(where, fmt.Sprintf("year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("payment_status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM payslips WHERE %s ORDER BY year DESC, month DESC`,
		payslipColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	payslips := []*domain.Payslip{}
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}
	return payslips, nil
}

func (r *PostgresPayrollRepository) GetPayslip(ctx context.Context, clientID, id string) (*domain.Payslip, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM payslips WHERE client_id = $1 AND id = $2`, payslipColumns)
	p, err := scanPayslip(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("payslip not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get payslip: %w", err)
	}
	return p, nil
}

func (r *PostgresPayrollRepository) CreatePayslip(ctx context.Context, p *domain.Payslip) (*domain.Payslip, error) {
	if p == nil || p.ClientID == "" || p.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = "pending"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payslips (id, client_id, staff_id, employee_id, month, year, basic_salary, allowances, deductions, net_salary, payment_status, generated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, NULLIF($12, '')::timestamptz)`,
		p.ID, p.ClientID, p.StaffID, p.EmployeeID, p.Month, p.Year,
		p.BasicSalary, p.Allowances, p.Deductions, p.NetSalary,
		p.PaymentStatus, p.GeneratedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payslip: %w", err)
	}
	return p, nil
}

func (r *PostgresPayrollRepository) GetSalaryStructure(ctx context.Context, clientID, staffID string) (*domain.SalaryStructure, error) {
	if clientID == "" || staffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	var s domain.SalaryStructure
	err := r.db.QueryRowContext(ctx,
		`SELECT
			id, client_id, staff_id,
			COALESCE(basic_salary, 0) AS basic_salary,
			COALESCE(allowances, 0) AS allowances,
			COALESCE(deductions, 0) AS deductions
		FROM salary_structures
		WHERE client_id = $1 AND staff_id = $2`, clientID, staffID,
	).Scan(&s.ID, &s.ClientID, &s.StaffID, &s.BasicSalary, &s.Allowances, &s.Deductions)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("salary structure not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get salary structure: %w", err)
	}
	return &s, nil
}

func (r *PostgresPayrollRepository) UpsertSalaryStructure(ctx context.Context, s *domain.SalaryStructure) (*domain.SalaryStructure, error) {
	if s == nil || s.ClientID == "" || s.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO salary_structures (id, client_id, staff_id, basic_salary, allowances, deductions)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (client_id, staff_id) DO UPDATE SET
			basic_salary = EXCLUDED.basic_salary,
			allowances = EXCLUDED.allowances,
			deductions = EXCLUDED.deductions`,
		s.ID, s.ClientID, s.StaffID, s.BasicSalary, s.Allowances, s.Deductions,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert salary structure: %w", err)
	}
	return s, nil
}

func (r *PostgresPayrollRepository) GetLeaveBalance(ctx context.Context, clientID, staffID string) (*domain.LeaveBalance, error) {
	if clientID == "" || staffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	var b domain.LeaveBalance
	err := r.db.QueryRowContext(ctx,
		`SELECT
			id, client_id, staff_id,
			COALESCE(casual, 0), COALESCE(sick, 0), COALESCE(earned, 0),
			COALESCE(casual_used, 0), COALESCE(sick_used, 0), COALESCE(earned_used, 0)
		FROM leave_balances
		WHERE client_id = $1 AND staff_id = $2`, clientID, staffID,
	).Scan(&b.ID, &b.ClientID, &b.StaffID, &b.Casual, &b.Sick, &b.Earned,
		&b.CasualUsed, &b.SickUsed, &b.EarnedUsed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("leave balance not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return &b, nil
}

func (r *PostgresPayrollRepository) UpsertLeaveBalance(ctx context.Context, b *domain.LeaveBalance) (*domain.LeaveBalance, error) {
	if b == nil || b.ClientID == "" || b.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO leave_balances (id, client_id, staff_id, casual, sick, earned, casual_used, sick_used, earned_used)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (client_id, staff_id) DO UPDATE SET
			casual = EXCLUDED.casual,
			sick = EXCLUDED.sick,
			earned = EXCLUDED.earned,
			casual_used = EXCLUDED.casual_used,
			sick_used = EXCLUDED.sick_used,
			earned_used = EXCLUDED.earned_used`,
		b.ID, b.ClientID, b.StaffID, b.Casual, b.Sick, b.Earned, b.CasualUsed,
		b.SickUsed, b.EarnedUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return b, nil
}
